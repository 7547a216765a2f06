package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// DefaultPageSize matches the storefront's default grid size.
const DefaultPageSize = 24

// CatalogSource lists books from the external entity store, already sorted.
// limit <= 0 means no limit.
type CatalogSource interface {
	List(ctx context.Context, sort SortKey, limit int) ([]Book, error)
}

// RankingService asks an external model to order the given books by
// relevance to query and returns the ranked book IDs. It is slow, may fail,
// and is not deterministic.
type RankingService interface {
	Rank(ctx context.Context, query string, books []Book) ([]string, error)
}

// QueryState is the immutable input of one pipeline evaluation. The UI
// replaces the whole value on every interaction instead of mutating it.
type QueryState struct {
	Query    string
	UseAI    bool
	Filter   FilterSpec
	Sort     SortKey
	Page     int
	PageSize int
}

// ResultPage is the visible outcome of one evaluation.
type ResultPage struct {
	Books        []Book
	PageIndex    int
	PageSize     int
	TotalItems   int
	TotalPages   int
	FirstVisible int
	LastVisible  int
	PageNumbers  []int
	// Ranked is true when the order comes from the AI ranking.
	Ranked bool
	// Degraded is true when AI ranking was requested but failed and the
	// results fell back to substring search.
	Degraded bool
}

// Pipeline evaluates QueryState against the catalog: load, search or
// AI-reorder, filter, paginate. It memoizes the catalog snapshot per sort
// key and the ranking per query so unrelated state changes do not refetch.
type Pipeline struct {
	source CatalogSource
	ranker RankingService
	logger *slog.Logger

	mu sync.Mutex

	snapSort SortKey
	snapshot []Book
	snapGen  uint64

	rankQuery string
	ranking   Ranking
	rankGen   uint64

	prev *QueryState
}

// NewPipeline builds a pipeline around the given collaborators. ranker may
// be nil, in which case every AI search degrades to substring matching.
func NewPipeline(source CatalogSource, ranker RankingService, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{source: source, ranker: ranker, logger: logger}
}

// Evaluate recomputes the result page for state. Any change to query,
// filters, sort or page size since the previous evaluation resets the page
// to 1 before pagination.
func (p *Pipeline) Evaluate(ctx context.Context, state QueryState) (ResultPage, error) {
	state = p.normalize(state)

	snapshot, err := p.loadSnapshot(ctx, state.Sort)
	if err != nil {
		return ResultPage{}, fmt.Errorf("load catalog: %w", err)
	}

	results := snapshot
	ranked, degraded := false, false
	if state.UseAI && strings.TrimSpace(state.Query) != "" {
		ranking := p.loadRanking(ctx, state.Query, snapshot)
		switch ranking.State {
		case RankApplied:
			results = Reorder(snapshot, ranking.IDs)
			ranked = true
		default:
			results = Search(snapshot, state.Query)
			degraded = ranking.State == RankFailed
		}
	} else {
		p.dropRanking()
		results = Search(snapshot, state.Query)
	}

	filtered := state.Filter.Apply(results)

	totalPages := (len(filtered) + state.PageSize - 1) / state.PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	page := state.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	pg := Paginate(filtered, page, state.PageSize)
	return ResultPage{
		Books:        pg.Items,
		PageIndex:    pg.PageIndex,
		PageSize:     pg.PageSize,
		TotalItems:   pg.TotalItems,
		TotalPages:   pg.TotalPages,
		FirstVisible: pg.FirstVisible,
		LastVisible:  pg.LastVisible,
		PageNumbers:  PageWindow(pg.PageIndex, pg.TotalPages, DefaultWindowWidth),
		Ranked:       ranked,
		Degraded:     degraded,
	}, nil
}

// Get returns the book with the given id from the current catalog.
func (p *Pipeline) Get(ctx context.Context, id string) (Book, error) {
	snapshot, err := p.loadSnapshot(ctx, DefaultSort)
	if err != nil {
		return Book{}, fmt.Errorf("load catalog: %w", err)
	}
	for _, b := range snapshot {
		if b.ID == id {
			return b, nil
		}
	}
	return Book{}, ErrNotFound
}

// Recent returns the newest books, most recent first.
func (p *Pipeline) Recent(ctx context.Context, limit int) ([]Book, error) {
	books, err := p.source.List(ctx, SortCreatedDesc, limit)
	if err != nil {
		return nil, fmt.Errorf("load recent books: %w", err)
	}
	return books, nil
}

// Related returns up to limit books sharing a category or an author with
// the given book, in catalog order.
func (p *Pipeline) Related(ctx context.Context, id string, limit int) ([]Book, error) {
	snapshot, err := p.loadSnapshot(ctx, DefaultSort)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	var subject *Book
	for i := range snapshot {
		if snapshot[i].ID == id {
			subject = &snapshot[i]
			break
		}
	}
	if subject == nil {
		return nil, ErrNotFound
	}

	related := make([]Book, 0, limit)
	for _, b := range snapshot {
		if b.ID == subject.ID {
			continue
		}
		if sharesAny(b.Categories, subject.Categories) || sharesAny(b.Authors, subject.Authors) {
			related = append(related, b)
			if len(related) == limit {
				break
			}
		}
	}
	return related, nil
}

// normalize fills defaults and applies the page-reset invariant under the
// pipeline lock.
func (p *Pipeline) normalize(state QueryState) QueryState {
	if state.PageSize <= 0 {
		state.PageSize = DefaultPageSize
	}
	if state.Sort == "" {
		state.Sort = DefaultSort
	}
	if state.Page < 1 {
		state.Page = 1
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.prev != nil && browseChanged(*p.prev, state) {
		state.Page = 1
	}
	saved := state
	p.prev = &saved
	return state
}

func browseChanged(prev, cur QueryState) bool {
	return prev.Query != cur.Query ||
		prev.UseAI != cur.UseAI ||
		prev.Sort != cur.Sort ||
		prev.PageSize != cur.PageSize ||
		!prev.Filter.Equal(cur.Filter)
}

// loadSnapshot returns the memoized catalog for sort, fetching on miss.
// If a newer fetch for the slot completed while this one was in flight,
// the stale response is not cached (last-request-wins).
func (p *Pipeline) loadSnapshot(ctx context.Context, sort SortKey) ([]Book, error) {
	p.mu.Lock()
	if p.snapshot != nil && p.snapSort == sort {
		books := p.snapshot
		p.mu.Unlock()
		return books, nil
	}
	p.snapGen++
	gen := p.snapGen
	p.mu.Unlock()

	books, err := p.source.List(ctx, sort, 0)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen == p.snapGen {
		p.snapSort = sort
		p.snapshot = books
	} else if p.snapshot != nil && p.snapSort == sort {
		// a newer request won the slot; render its snapshot instead
		books = p.snapshot
	}
	return books, nil
}

// loadRanking returns the memoized ranking for query, invoking the ranking
// service once on miss. Filter changes reuse the cached ranking; a new
// query misses the cache and re-invokes.
func (p *Pipeline) loadRanking(ctx context.Context, query string, books []Book) Ranking {
	p.mu.Lock()
	if p.ranking.State != RankNone && p.rankQuery == query {
		r := p.ranking
		p.mu.Unlock()
		return r
	}
	p.rankGen++
	gen := p.rankGen
	p.mu.Unlock()

	var result Ranking
	if p.ranker == nil {
		result = Ranking{State: RankFailed, Err: fmt.Errorf("no ranking service configured")}
	} else if ids, err := p.ranker.Rank(ctx, query, books); err != nil {
		p.logger.Warn("ai ranking failed, falling back to substring search",
			"query", query, "error", err)
		result = Ranking{State: RankFailed, Err: err}
	} else {
		result = Ranking{State: RankApplied, IDs: ids}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen == p.rankGen {
		p.rankQuery = query
		p.ranking = result
	} else if p.ranking.State != RankNone && p.rankQuery == query {
		result = p.ranking
	}
	return result
}

// dropRanking forgets any cached AI ranking. Called when the current state
// no longer requests AI results.
func (p *Pipeline) dropRanking() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rankQuery = ""
	p.ranking = Ranking{}
}

func sharesAny(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
