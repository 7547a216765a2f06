package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"librairie/internal/catalog"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

// Books returns a small, stable catalog fixture.
func Books() []catalog.Book {
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	return []catalog.Book{
		{
			ID:              "b1",
			Title:           "Dune",
			Authors:         []string{"Frank Herbert"},
			ISBN13:          "9782221252055",
			Language:        catalog.LanguageFR,
			Format:          catalog.FormatPaperback,
			Availability:    catalog.AvailabilityInStock,
			PriceCHF:        fptr(24.9),
			PublicationYear: iptr(1965),
			Publisher:       "Robert Laffont",
			Categories:      []string{"Science-fiction"},
			CreatedAt:       created,
		},
		{
			ID:              "b2",
			Title:           "Le Petit Prince",
			Authors:         []string{"Antoine de Saint-Exupéry"},
			ISBN13:          "9782070612758",
			Language:        catalog.LanguageFR,
			Format:          catalog.FormatHardcover,
			Availability:    catalog.AvailabilityInStock,
			PriceCHF:        fptr(14.5),
			PublicationYear: iptr(1943),
			Publisher:       "Gallimard",
			Categories:      []string{"Fiction", "Jeunesse"},
			CreatedAt:       created.Add(24 * time.Hour),
		},
		{
			ID:           "b3",
			Title:        "Der Prozess",
			Authors:      []string{"Franz Kafka"},
			Language:     catalog.LanguageDE,
			Format:       catalog.FormatEbook,
			Availability: catalog.AvailabilityPreorder,
			CreatedAt:    created.Add(48 * time.Hour),
		},
	}
}

// NewRequest creates a new HTTP GET request for testing.
func NewRequest(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}

// RecordResponse captures the decoded HTTP response for assertions.
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse decodes a recorded response body as JSON.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
