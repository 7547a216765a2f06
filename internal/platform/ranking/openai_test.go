package ranking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librairie/internal/catalog"
)

func TestBuildPrompt(t *testing.T) {
	longDescription := strings.Repeat("é", 300)
	books := []catalog.Book{
		{
			ID:          "b1",
			Title:       "Dune",
			Authors:     []string{"Frank Herbert"},
			Description: longDescription,
			Categories:  []string{"Science-fiction"},
			ISBN13:      "9782221252055",
			Publisher:   "Robert Laffont",
		},
	}

	prompt, err := buildPrompt("désert épice", books)

	require.NoError(t, err)
	assert.Contains(t, prompt, `"désert épice"`)
	assert.Contains(t, prompt, `"id":"b1"`)
	assert.Contains(t, prompt, `"Frank Herbert"`)
	assert.Contains(t, prompt, "relevant_book_ids")
	// only the projection fields go to the model
	assert.NotContains(t, prompt, "9782221252055")
	assert.NotContains(t, prompt, "Robert Laffont")
	// the description is truncated to 200 runes
	assert.Contains(t, prompt, strings.Repeat("é", 200))
	assert.NotContains(t, prompt, strings.Repeat("é", 201))
}

func TestParseRankResponse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{"well formed", `{"relevant_book_ids": ["b3", "b1"]}`, []string{"b3", "b1"}, false},
		{"empty list", `{"relevant_book_ids": []}`, []string{}, false},
		{"missing field", `{}`, nil, false},
		{"not json", `the most relevant book is b3`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRankResponse(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRankResponse_CapsAtMaxResults(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"relevant_book_ids": [`)
	for i := 0; i < 80; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`"id"`)
	}
	sb.WriteString(`]}`)

	got, err := parseRankResponse(sb.String())

	require.NoError(t, err)
	assert.Len(t, got, MaxResults)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "éé", truncate("ééé", 2), "truncation counts runes, not bytes")
	assert.Equal(t, "", truncate("", 10))
}
