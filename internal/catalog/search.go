package catalog

import "strings"

// Search keeps the books whose searchable text contains every whitespace
// separated term of query, case-insensitively. A blank query returns books
// unchanged. Input order is preserved; this is containment, not scoring.
func Search(books []Book, query string) []Book {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return books
	}
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if containsAll(searchableText(b), terms) {
			out = append(out, b)
		}
	}
	return out
}

func containsAll(text string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}

// searchableText joins the textual fields of a book into one lowercased
// haystack. Absent fields contribute nothing.
func searchableText(b Book) string {
	parts := make([]string, 0, 6+len(b.Authors)+len(b.Categories))
	parts = append(parts, b.Title, b.Subtitle)
	parts = append(parts, b.Authors...)
	parts = append(parts, b.Description, b.ISBN13, b.Publisher)
	parts = append(parts, b.Categories...)
	return strings.ToLower(strings.Join(parts, " "))
}
