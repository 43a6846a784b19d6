// Package sources holds one adapter per classical collection. Each adapter
// loads its raw data in the collection's native shape, maps every record
// into models.Poem through a pure normalizer, and answers list, lookup and
// substring search over the result.
package sources

import (
	"context"
	"errors"

	"shicihub/pkg/models"
)

// ErrSourceUnavailable marks a missing or unparsable backing file.
var ErrSourceUnavailable = errors.New("source unavailable")

// Adapter is implemented by each collection (static JSON, the ingested
// store, the builtin set). Not-found lookups return nil, nil.
type Adapter interface {
	Name() string
	List(ctx context.Context) ([]models.Poem, error)
	GetByID(ctx context.Context, id string) (*models.Poem, error)
	Search(ctx context.Context, query string) ([]models.Poem, error)
}
