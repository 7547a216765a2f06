package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"librairie/internal/catalog"
	"librairie/internal/httpx"
)

// queryParams mirrors the storefront's URL contract: q, ai, sort, page,
// page_size, comma-separated lang/format/avail sets, and pmin/pmax/ymin/ymax
// range bounds.
type queryParams struct {
	Q        string
	AI       bool
	Sort     string   `param:"sort" validate:"omitempty,oneof=created_date -created_date title -title price_chf -price_chf"`
	Langs    []string `param:"lang" validate:"dive,oneof=fr de en it"`
	Formats  []string `param:"format" validate:"dive,oneof=paperback hardcover ebook audiobook"`
	Avail    []string `param:"avail" validate:"dive,oneof=in_stock preorder out_of_stock"`
	PriceMin *float64 `param:"pmin" validate:"omitempty,gte=0"`
	PriceMax *float64 `param:"pmax" validate:"omitempty,gte=0"`
	YearMin  *int     `param:"ymin" validate:"omitempty,gte=0"`
	YearMax  *int     `param:"ymax" validate:"omitempty,gte=0"`
	Page     int      `param:"page" validate:"gte=1"`
	PageSize int      `param:"page_size" validate:"gte=1,lte=100"`
}

// parseQueryState builds the pipeline input from request parameters.
// Malformed values come back as field details for a 400; page and
// page_size silently fall back to defaults like the storefront UI does.
func parseQueryState(r *http.Request) (catalog.QueryState, []httpx.ErrorDetail) {
	q := r.URL.Query()

	params := queryParams{
		Q:       q.Get("q"),
		AI:      q.Get("ai") == "true" || q.Get("ai") == "1",
		Sort:    q.Get("sort"),
		Langs:   splitSet(q.Get("lang")),
		Formats: splitSet(q.Get("format")),
		Avail:   splitSet(q.Get("avail")),
	}

	var details []httpx.ErrorDetail

	params.Page, _ = strconv.Atoi(q.Get("page"))
	if params.Page < 1 {
		params.Page = 1
	}
	params.PageSize, _ = strconv.Atoi(q.Get("page_size"))
	if params.PageSize <= 0 || params.PageSize > 100 {
		params.PageSize = catalog.DefaultPageSize
	}

	params.PriceMin = parseFloat(q, "pmin", &details)
	params.PriceMax = parseFloat(q, "pmax", &details)
	params.YearMin = parseInt(q, "ymin", &details)
	params.YearMax = parseInt(q, "ymax", &details)

	for _, verr := range ValidateStruct(params) {
		details = append(details, httpx.ErrorDetail{Field: verr.Field, Message: verr.Message})
	}

	// Inverted ranges are a caller contract violation; reject them here so
	// the core never sees one.
	if params.PriceMin != nil && params.PriceMax != nil && *params.PriceMin > *params.PriceMax {
		details = append(details, httpx.ErrorDetail{Field: "pmin", Message: "pmin must not exceed pmax"})
	}
	if params.YearMin != nil && params.YearMax != nil && *params.YearMin > *params.YearMax {
		details = append(details, httpx.ErrorDetail{Field: "ymin", Message: "ymin must not exceed ymax"})
	}

	if len(details) > 0 {
		return catalog.QueryState{}, details
	}

	sort, _ := catalog.ParseSortKey(params.Sort)
	return catalog.QueryState{
		Query:    params.Q,
		UseAI:    params.AI,
		Sort:     sort,
		Page:     params.Page,
		PageSize: params.PageSize,
		Filter: catalog.FilterSpec{
			Languages:      toEnums[catalog.Language](params.Langs),
			Formats:        toEnums[catalog.Format](params.Formats),
			Availabilities: toEnums[catalog.Availability](params.Avail),
			PriceMin:       params.PriceMin,
			PriceMax:       params.PriceMax,
			YearMin:        params.YearMin,
			YearMax:        params.YearMax,
		},
	}, nil
}

func splitSet(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseFloat(q url.Values, key string, details *[]httpx.ErrorDetail) *float64 {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*details = append(*details, httpx.ErrorDetail{Field: key, Message: key + " must be a number"})
		return nil
	}
	return &v
}

func parseInt(q url.Values, key string, details *[]httpx.ErrorDetail) *int {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*details = append(*details, httpx.ErrorDetail{Field: key, Message: key + " must be an integer"})
		return nil
	}
	return &v
}

func toEnums[T ~string](values []string) []T {
	if len(values) == 0 {
		return nil
	}
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = T(v)
	}
	return out
}

func parseLimit(r *http.Request, def, max int) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
