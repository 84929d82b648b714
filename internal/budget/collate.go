package budget

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NewCollator returns a case- and accent-insensitive English collator.
// Collators are not safe for concurrent use, so callers create their own.
func NewCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)
}

// SortByName stably sorts values by the name returned from name. Equal names
// keep their input order.
func SortByName[T any](values []T, name func(T) string) {
	c := NewCollator()
	slices.SortStableFunc(values, func(a, b T) int {
		return c.CompareString(name(a), name(b))
	})
}
