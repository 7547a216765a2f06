package catalog

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a book is not in the catalog.
var ErrNotFound = errors.New("book not found")

// Language is one of the store's four catalog languages.
type Language string

const (
	LanguageFR Language = "fr"
	LanguageDE Language = "de"
	LanguageEN Language = "en"
	LanguageIT Language = "it"
)

// Format is the physical or digital edition of a book.
type Format string

const (
	FormatPaperback Format = "paperback"
	FormatHardcover Format = "hardcover"
	FormatEbook     Format = "ebook"
	FormatAudiobook Format = "audiobook"
)

// Availability is the stock state of a book.
type Availability string

const (
	AvailabilityInStock    Availability = "in_stock"
	AvailabilityPreorder   Availability = "preorder"
	AvailabilityOutOfStock Availability = "out_of_stock"
)

// Book is a catalog entry as delivered by the entity store. PriceCHF,
// PublicationYear and Pages are pointers so that "absent" stays
// distinguishable from zero; range filters depend on that.
type Book struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Subtitle        string       `json:"subtitle,omitempty"`
	Authors         []string     `json:"authors,omitempty"`
	Description     string       `json:"description,omitempty"`
	ISBN13          string       `json:"isbn13,omitempty"`
	Language        Language     `json:"language,omitempty"`
	Format          Format       `json:"format,omitempty"`
	Availability    Availability `json:"availability,omitempty"`
	PriceCHF        *float64     `json:"price_chf,omitempty"`
	PublicationYear *int         `json:"publication_year,omitempty"`
	Publisher       string       `json:"publisher,omitempty"`
	Categories      []string     `json:"categories,omitempty"`
	Pages           *int         `json:"pages,omitempty"`
	CoverURL        string       `json:"cover_url,omitempty"`
	CreatedAt       time.Time    `json:"created_date"`
}

// SortKey names a store-side sort order. A leading "-" means descending,
// matching the entity store's sort parameter.
type SortKey string

const (
	SortCreatedDesc SortKey = "-created_date"
	SortCreatedAsc  SortKey = "created_date"
	SortTitleAsc    SortKey = "title"
	SortTitleDesc   SortKey = "-title"
	SortPriceAsc    SortKey = "price_chf"
	SortPriceDesc   SortKey = "-price_chf"
)

// DefaultSort is the storefront's "newest first" ordering.
const DefaultSort = SortCreatedDesc

// ParseSortKey validates a raw sort parameter. An empty string maps to
// DefaultSort.
func ParseSortKey(raw string) (SortKey, error) {
	if raw == "" {
		return DefaultSort, nil
	}
	switch k := SortKey(raw); k {
	case SortCreatedDesc, SortCreatedAsc, SortTitleAsc, SortTitleDesc, SortPriceAsc, SortPriceDesc:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", raw)
}
