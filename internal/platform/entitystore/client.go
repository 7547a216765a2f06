// Package entitystore is the HTTP client for the managed entity store that
// owns the Book collection. The store applies sorting; all filtering and
// pagination happen client-side in the catalog pipeline.
package entitystore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"librairie/internal/catalog"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func NewClient(baseURL, apiKey string, rps int, maxRetries int) *Client {
	if rps < 1 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
		backoff:    time.Second,
	}
}

// bookRecord matches the entity store's Book schema.
type bookRecord struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Subtitle        string    `json:"subtitle"`
	Authors         []string  `json:"authors"`
	Description     string    `json:"description"`
	ISBN13          string    `json:"isbn13"`
	Language        string    `json:"language"`
	Format          string    `json:"format"`
	Availability    string    `json:"availability"`
	PriceCHF        *float64  `json:"price_chf"`
	PublicationYear *int      `json:"publication_year"`
	Publisher       string    `json:"publisher"`
	Categories      []string  `json:"categories"`
	Pages           *int      `json:"pages"`
	CoverURL        string    `json:"cover_url"`
	CreatedDate     time.Time `json:"created_date"`
}

// List fetches the Book collection sorted by sort. limit <= 0 fetches the
// whole collection.
func (c *Client) List(ctx context.Context, sort catalog.SortKey, limit int) ([]catalog.Book, error) {
	q := url.Values{}
	if sort != "" {
		q.Set("sort", string(sort))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u := c.baseURL + "/entities/Book"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}

	var records []bookRecord
	if err := c.get(ctx, u, &records); err != nil {
		return nil, err
	}

	books := make([]catalog.Book, len(records))
	for i, rec := range records {
		books[i] = rec.toBook()
	}
	return books, nil
}

// Ping checks that the store answers, for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.List(ctx, catalog.DefaultSort, 1)
	return err
}

func (rec bookRecord) toBook() catalog.Book {
	return catalog.Book{
		ID:              rec.ID,
		Title:           rec.Title,
		Subtitle:        rec.Subtitle,
		Authors:         rec.Authors,
		Description:     rec.Description,
		ISBN13:          rec.ISBN13,
		Language:        catalog.Language(rec.Language),
		Format:          catalog.Format(rec.Format),
		Availability:    catalog.Availability(rec.Availability),
		PriceCHF:        rec.PriceCHF,
		PublicationYear: rec.PublicationYear,
		Publisher:       rec.Publisher,
		Categories:      rec.Categories,
		Pages:           rec.Pages,
		CoverURL:        rec.CoverURL,
		CreatedAt:       rec.CreatedDate,
	}
}

func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			wait := time.Duration(1<<uint(i-1)) * c.backoff
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
				continue
			}
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(target)
		resp.Body.Close()
		return err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}
