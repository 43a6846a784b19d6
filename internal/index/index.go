// Package index is the in-process structured search backend: a memory-only
// bleve index over the whole corpus, rebuilt on a timer.
package index

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"shicihub/internal/search"
	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

var ErrNotReady = errors.New("index: not built yet")

const batchSize = 500

// Source supplies the poems to index.
type Source interface {
	GetAll(ctx context.Context) []models.Poem
}

// Index answers search.Backend queries from a bleve snapshot of the corpus.
// Refresh builds a new snapshot and swaps it in; searches never see a
// half-built index.
type Index struct {
	src    Source
	logger *log.Logger

	mu    sync.RWMutex
	idx   bleve.Index
	poems map[string]models.Poem
	order map[string]int
}

func New(src Source, logger *log.Logger) *Index {
	if logger == nil {
		logger = log.Default()
	}
	return &Index{src: src, logger: logger}
}

// Refresh indexes the current corpus and replaces the previous snapshot.
func (x *Index) Refresh(ctx context.Context) error {
	start := time.Now()
	all := x.src.GetAll(ctx)

	idx, err := bleve.NewMemOnly(poemMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	poems := make(map[string]models.Poem, len(all))
	order := make(map[string]int, len(all))
	batch := idx.NewBatch()
	for _, p := range all {
		key := p.Key()
		if _, dup := poems[key]; dup {
			continue
		}
		poems[key] = p
		order[key] = len(order)

		if err := batch.Index(key, document(p)); err != nil {
			_ = idx.Close()
			return fmt.Errorf("index %s: %w", key, err)
		}
		if batch.Size() >= batchSize {
			if err := idx.Batch(batch); err != nil {
				_ = idx.Close()
				return fmt.Errorf("flush batch: %w", err)
			}
			batch.Reset()
		}
	}
	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			_ = idx.Close()
			return fmt.Errorf("flush batch: %w", err)
		}
	}

	x.mu.Lock()
	old := x.idx
	x.idx, x.poems, x.order = idx, poems, order
	x.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	x.logger.Printf("[index] indexed %d poems in %s", len(poems), time.Since(start).Round(time.Millisecond))
	return nil
}

// Run refreshes on every tick until ctx is done. A failed refresh keeps the
// previous snapshot.
func (x *Index) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := x.Refresh(ctx); err != nil {
				x.logger.Printf("[index] refresh failed: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Len is the number of indexed poems.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.poems)
}

func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.idx == nil {
		return nil
	}
	err := x.idx.Close()
	x.idx, x.poems, x.order = nil, nil, nil
	return err
}

// SearchPoems returns every poem whose title, author, a content line or a
// tag contains q.Text, restricted to q.Dynasty when set, in corpus order.
func (x *Index) SearchPoems(ctx context.Context, q search.Query) ([]models.Poem, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.idx == nil {
		return nil, ErrNotReady
	}
	if len(x.poems) == 0 {
		return []models.Poem{}, nil
	}

	req := bleve.NewSearchRequestOptions(buildQuery(q), len(x.poems), 0, false)
	res, err := x.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	out := make([]models.Poem, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if p, ok := x.poems[hit.ID]; ok {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return x.order[out[i].Key()] < x.order[out[j].Key()]
	})
	return out, nil
}

func buildQuery(q search.Query) query.Query {
	pattern := ".*" + regexp.QuoteMeta(utils.Fold(q.Text)) + ".*"

	fields := make([]query.Query, 0, len(textFields))
	for _, f := range textFields {
		rq := bleve.NewRegexpQuery(pattern)
		rq.SetField(f)
		fields = append(fields, rq)
	}
	text := bleve.NewDisjunctionQuery(fields...)

	if q.Dynasty == "" {
		return text
	}
	dq := bleve.NewTermQuery(q.Dynasty)
	dq.SetField(fieldDynasty)
	return bleve.NewConjunctionQuery(text, dq)
}
