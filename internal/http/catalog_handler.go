package http

import (
	"context"
	"errors"
	"net/http"

	"librairie/internal/catalog"
	"librairie/internal/httpx"
)

const (
	defaultRecentLimit  = 8
	maxRecentLimit      = 50
	defaultRelatedLimit = 4
	maxRelatedLimit     = 12
)

// CatalogService is the slice of the query pipeline the handlers need.
type CatalogService interface {
	Evaluate(ctx context.Context, state catalog.QueryState) (catalog.ResultPage, error)
	Get(ctx context.Context, id string) (catalog.Book, error)
	Related(ctx context.Context, id string, limit int) ([]catalog.Book, error)
	Recent(ctx context.Context, limit int) ([]catalog.Book, error)
}

type CatalogHandler struct {
	svc CatalogService
}

func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// List handles GET /books: catalog browsing with filters, sort and
// pagination. Free-text search lives on /search.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	state, details := parseQueryState(r)
	if details != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "INVALID_PARAMS", "Invalid query parameters", details)
		return
	}
	state.Query = ""
	state.UseAI = false

	result, err := h.svc.Evaluate(r.Context(), state)
	if err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadGateway, "CATALOG_UNAVAILABLE", "Catalog could not be loaded", nil)
		return
	}

	httpx.JSONSuccessWithRequest(r, w, result.Books, resultMeta(result))
}

// Recent handles GET /books/recent: the newest arrivals for the home page.
func (h *CatalogHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, defaultRecentLimit, maxRecentLimit)

	books, err := h.svc.Recent(r.Context(), limit)
	if err != nil {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadGateway, "CATALOG_UNAVAILABLE", "Catalog could not be loaded", nil)
		return
	}

	httpx.JSONSuccessWithRequest(r, w, books, map[string]interface{}{"limit": limit})
}

// GetByID handles GET /books/{id}.
func (h *CatalogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "BAD_REQUEST", "Book id is required", nil)
		return
	}

	book, err := h.svc.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			httpx.JSONErrorWithRequest(r, w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		default:
			httpx.JSONErrorWithRequest(r, w, http.StatusBadGateway, "CATALOG_UNAVAILABLE", "Catalog could not be loaded", nil)
		}
		return
	}

	httpx.JSONSuccessWithRequest(r, w, book, nil)
}

// Related handles GET /books/{id}/related: books sharing a category or an
// author with the given one.
func (h *CatalogHandler) Related(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONErrorWithRequest(r, w, http.StatusBadRequest, "BAD_REQUEST", "Book id is required", nil)
		return
	}
	limit := parseLimit(r, defaultRelatedLimit, maxRelatedLimit)

	books, err := h.svc.Related(r.Context(), id, limit)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			httpx.JSONErrorWithRequest(r, w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		default:
			httpx.JSONErrorWithRequest(r, w, http.StatusBadGateway, "CATALOG_UNAVAILABLE", "Catalog could not be loaded", nil)
		}
		return
	}

	httpx.JSONSuccessWithRequest(r, w, books, map[string]interface{}{"limit": limit})
}

func resultMeta(result catalog.ResultPage) map[string]interface{} {
	return map[string]interface{}{
		"page":        result.PageIndex,
		"page_size":   result.PageSize,
		"total":       result.TotalItems,
		"total_pages": result.TotalPages,
		"first":       result.FirstVisible,
		"last":        result.LastVisible,
		"pages":       result.PageNumbers,
	}
}
