// Package search ranks poems against a free-text query. A structured
// Backend is tried first; any failure of it falls back to a substring scan
// of the aggregated corpus.
package search

import (
	"context"
	"errors"

	"shicihub/pkg/models"
)

// ErrNoBackend is the failure reported when no structured backend is
// configured; it sends every query down the local path.
var ErrNoBackend = errors.New("search: no backend configured")

// Query is what a Backend receives. Text is trimmed and non-empty; Dynasty
// is empty when no dynasty filter applies.
type Query struct {
	Text    string `json:"text"`
	Dynasty string `json:"dynasty,omitempty"`
}

// Backend is a structured search service (a full-text index or a remote
// search_poems endpoint). It returns every poem whose title, author,
// content or tags contain Text; ranking happens in the Engine.
type Backend interface {
	SearchPoems(ctx context.Context, q Query) ([]models.Poem, error)
}

// Corpus is the aggregated collection the local path scans. Search returns
// every poem whose canonical or native fields contain query, in corpus order.
type Corpus interface {
	Search(ctx context.Context, query string) []models.Poem
}
