package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"sync"

	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

// collection is the shared Adapter for file-backed sources. N is the
// native record type; normalize turns the whole native list into poems so
// it can own source-scoped id counters.
//
// The poem list is computed once on first use and then only read. A failed
// load is not memoized, so a file dropped in later is picked up.
type collection[N any] struct {
	name       string
	load       func() ([]N, error)
	normalize  func([]N) []models.Poem
	searchKeys []string // metadata keys scanned by Search besides the canonical fields
	logger     *log.Logger

	mu     sync.Mutex
	loaded bool
	poems  []models.Poem
	byID   map[string]int
}

func newCollection[N any](name string, load func() ([]N, error), normalize func([]N) []models.Poem, searchKeys ...string) *collection[N] {
	return &collection[N]{
		name:       name,
		load:       load,
		normalize:  normalize,
		searchKeys: searchKeys,
		logger:     log.Default(),
	}
}

func (c *collection[N]) Name() string { return c.name }

func (c *collection[N]) materialize() ([]models.Poem, map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return c.poems, c.byID
	}

	raw, err := c.load()
	if err != nil {
		c.logger.Printf("[sources] %s unavailable: %v", c.name, err)
		return nil, nil
	}

	normalized := c.normalize(raw)
	poems := make([]models.Poem, 0, len(normalized))
	byID := make(map[string]int, len(normalized))
	dropped := 0
	for _, p := range normalized {
		if !p.Valid() {
			dropped++
			continue
		}
		if _, dup := byID[p.ID]; dup {
			dropped++
			continue
		}
		byID[p.ID] = len(poems)
		poems = append(poems, p)
	}
	if dropped > 0 {
		c.logger.Printf("[sources] %s: dropped %d invalid records", c.name, dropped)
	}

	c.poems, c.byID, c.loaded = poems, byID, true
	return poems, byID
}

func (c *collection[N]) List(ctx context.Context) ([]models.Poem, error) {
	poems, _ := c.materialize()
	return poems, nil
}

func (c *collection[N]) GetByID(ctx context.Context, id string) (*models.Poem, error) {
	poems, byID := c.materialize()
	i, ok := byID[id]
	if !ok {
		return nil, nil
	}
	p := poems[i]
	return &p, nil
}

// Search is a case-insensitive substring match over title, author, every
// content line, every tag and the adapter's structured metadata fields.
func (c *collection[N]) Search(ctx context.Context, query string) ([]models.Poem, error) {
	q := utils.Fold(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	poems, _ := c.materialize()
	var out []models.Poem
	for _, p := range poems {
		if c.matches(p, q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *collection[N]) matches(p models.Poem, q string) bool {
	if utils.Contains(p.Title, q) || utils.Contains(p.Author, q) ||
		utils.AnyContains(p.Content, q) || utils.AnyContains(p.Tags, q) {
		return true
	}
	for _, key := range c.searchKeys {
		if s, ok := p.Metadata[key].(string); ok && utils.Contains(s, q) {
			return true
		}
	}
	return false
}

// loadJSON decodes a JSON document of type T from path.
func loadJSON[T any](path string) (T, error) {
	var v T
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return v, fmt.Errorf("%w: %s not found", ErrSourceUnavailable, path)
		}
		return v, fmt.Errorf("%w: read %s: %v", ErrSourceUnavailable, path, err)
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("%w: decode %s: %v", ErrSourceUnavailable, path, err)
	}
	return v, nil
}

func jsonList[N any](path string) func() ([]N, error) {
	return func() ([]N, error) {
		return loadJSON[[]N](path)
	}
}
