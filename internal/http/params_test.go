package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librairie/internal/catalog"
	"librairie/internal/testutil"
)

func TestParseQueryState_Defaults(t *testing.T) {
	state, details := parseQueryState(testutil.NewRequest("/books"))

	require.Nil(t, details)
	assert.Equal(t, catalog.DefaultSort, state.Sort)
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, catalog.DefaultPageSize, state.PageSize)
	assert.True(t, state.Filter.IsZero())
	assert.Empty(t, state.Query)
	assert.False(t, state.UseAI)
}

func TestParseQueryState_FullContract(t *testing.T) {
	state, details := parseQueryState(testutil.NewRequest(
		"/search?q=dune+herbert&ai=true&sort=price_chf&page=3&page_size=48" +
			"&lang=fr,de&format=paperback,ebook&avail=in_stock&pmin=10.5&pmax=80&ymin=1950&ymax=2000"))

	require.Nil(t, details)
	assert.Equal(t, "dune herbert", state.Query)
	assert.True(t, state.UseAI)
	assert.Equal(t, catalog.SortPriceAsc, state.Sort)
	assert.Equal(t, 3, state.Page)
	assert.Equal(t, 48, state.PageSize)
	assert.Equal(t, []catalog.Language{catalog.LanguageFR, catalog.LanguageDE}, state.Filter.Languages)
	assert.Equal(t, []catalog.Format{catalog.FormatPaperback, catalog.FormatEbook}, state.Filter.Formats)
	assert.Equal(t, []catalog.Availability{catalog.AvailabilityInStock}, state.Filter.Availabilities)
	require.NotNil(t, state.Filter.PriceMin)
	assert.Equal(t, 10.5, *state.Filter.PriceMin)
	require.NotNil(t, state.Filter.YearMax)
	assert.Equal(t, 2000, *state.Filter.YearMax)
}

func TestParseQueryState_SilentPagingDefaults(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		wantPage     int
		wantPageSize int
	}{
		{"zero page", "/books?page=0", 1, catalog.DefaultPageSize},
		{"negative page", "/books?page=-3", 1, catalog.DefaultPageSize},
		{"garbage page", "/books?page=abc", 1, catalog.DefaultPageSize},
		{"oversized page_size", "/books?page_size=5000", 1, catalog.DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, details := parseQueryState(testutil.NewRequest(tt.target))
			require.Nil(t, details)
			assert.Equal(t, tt.wantPage, state.Page)
			assert.Equal(t, tt.wantPageSize, state.PageSize)
		})
	}
}

func TestParseQueryState_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantField string
	}{
		{"unknown language", "/books?lang=es", "lang"},
		{"unknown format", "/books?format=scroll", "format"},
		{"unknown availability", "/books?avail=lost", "avail"},
		{"unknown sort", "/books?sort=rating", "sort"},
		{"pmin not a number", "/books?pmin=abc", "pmin"},
		{"ymax not an integer", "/books?ymax=soon", "ymax"},
		{"negative pmin", "/books?pmin=-5", "pmin"},
		{"inverted price range", "/books?pmin=80&pmax=20", "pmin"},
		{"inverted year range", "/books?ymin=2024&ymax=1900", "ymin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, details := parseQueryState(testutil.NewRequest(tt.target))
			require.NotEmpty(t, details)
			fields := make([]string, 0, len(details))
			for _, d := range details {
				fields = append(fields, d.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestSplitSet(t *testing.T) {
	assert.Nil(t, splitSet(""))
	assert.Equal(t, []string{"fr"}, splitSet("fr"))
	assert.Equal(t, []string{"fr", "de"}, splitSet("fr,de"))
	assert.Equal(t, []string{"fr", "de"}, splitSet(" fr , de "))
	assert.Nil(t, splitSet(","))
}
