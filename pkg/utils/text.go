package utils

import (
	"strings"

	"golang.org/x/text/width"
)

// Fold maps s to the form used for case-insensitive substring matching:
// full-width Latin letters and digits are narrowed, then lower-cased.
func Fold(s string) string {
	return strings.ToLower(width.Fold.String(s))
}

// Contains reports whether text contains the already-folded query.
func Contains(text, foldedQuery string) bool {
	return strings.Contains(Fold(text), foldedQuery)
}

// AnyContains reports whether any of the values contains the already-folded query.
func AnyContains(values []string, foldedQuery string) bool {
	for _, v := range values {
		if Contains(v, foldedQuery) {
			return true
		}
	}
	return false
}
