package catalog

// RankState tags the outcome of an AI relevance ranking attempt.
type RankState int

const (
	// RankNone means no ranking was requested for the current query.
	RankNone RankState = iota
	// RankApplied means an external ranking is in effect.
	RankApplied
	// RankFailed means the ranking call failed and results fell back to
	// substring search.
	RankFailed
)

// Ranking is the tagged result of a ranking attempt. Callers switch on
// State instead of checking a nullable slice, so the fallback branch
// cannot be forgotten.
type Ranking struct {
	State RankState
	IDs   []string
	Err   error
}

// Reorder returns the subsequence of books whose IDs appear in rankedIDs,
// in rankedIDs order. IDs with no matching book are skipped.
func Reorder(books []Book, rankedIDs []string) []Book {
	byID := make(map[string]Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	out := make([]Book, 0, len(rankedIDs))
	for _, id := range rankedIDs {
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out
}
