package catalog

import "slices"

// FilterSpec holds the user-selected inclusion constraints. An empty set
// leaves that dimension unconstrained; a nil range bound is unbounded on
// that side.
type FilterSpec struct {
	Languages      []Language
	Formats        []Format
	Availabilities []Availability
	PriceMin       *float64
	PriceMax       *float64
	YearMin        *int
	YearMax        *int
}

// Matches reports whether b satisfies every active filter dimension.
// A book missing price_chf or publication_year is excluded as soon as a
// bound on the corresponding range is set.
func (f FilterSpec) Matches(b Book) bool {
	if len(f.Languages) > 0 && !slices.Contains(f.Languages, b.Language) {
		return false
	}
	if len(f.Formats) > 0 && !slices.Contains(f.Formats, b.Format) {
		return false
	}
	if len(f.Availabilities) > 0 && !slices.Contains(f.Availabilities, b.Availability) {
		return false
	}
	if !inRange(b.PriceCHF, f.PriceMin, f.PriceMax) {
		return false
	}
	if !inRange(b.PublicationYear, f.YearMin, f.YearMax) {
		return false
	}
	return true
}

// Apply keeps the books matching f, preserving input order.
func (f FilterSpec) Apply(books []Book) []Book {
	if f.IsZero() {
		return books
	}
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}

// IsZero reports whether no dimension is constrained.
func (f FilterSpec) IsZero() bool {
	return len(f.Languages) == 0 && len(f.Formats) == 0 && len(f.Availabilities) == 0 &&
		f.PriceMin == nil && f.PriceMax == nil && f.YearMin == nil && f.YearMax == nil
}

// Equal reports whether two specs constrain identically.
func (f FilterSpec) Equal(o FilterSpec) bool {
	return slices.Equal(f.Languages, o.Languages) &&
		slices.Equal(f.Formats, o.Formats) &&
		slices.Equal(f.Availabilities, o.Availabilities) &&
		ptrEq(f.PriceMin, o.PriceMin) && ptrEq(f.PriceMax, o.PriceMax) &&
		ptrEq(f.YearMin, o.YearMin) && ptrEq(f.YearMax, o.YearMax)
}

func inRange[T int | float64](v, min, max *T) bool {
	if min == nil && max == nil {
		return true
	}
	if v == nil {
		return false
	}
	if min != nil && *v < *min {
		return false
	}
	if max != nil && *v > *max {
		return false
	}
	return true
}

func ptrEq[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
