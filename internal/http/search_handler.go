package http

import (
	"net/http"

	"librairie/internal/httpx"
)

type SearchHandler struct {
	svc CatalogService
}

func NewSearchHandler(svc CatalogService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Search handles GET /search: keyword search over the catalog, with
// optional AI relevance ranking when ai=true. A ranking failure never
// fails the request; the response is flagged degraded instead.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	state, details := parseQueryState(r)
	if details != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "INVALID_PARAMS", "Invalid query parameters", details)
		return
	}

	result, err := h.svc.Evaluate(r.Context(), state)
	if err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadGateway, "CATALOG_UNAVAILABLE", "Catalog could not be loaded", nil)
		return
	}

	meta := resultMeta(result)
	meta["query"] = state.Query
	meta["ranked"] = result.Ranked
	meta["degraded"] = result.Degraded
	httpx.JSONSuccessWithRequest(r, w, result.Books, meta)
}
