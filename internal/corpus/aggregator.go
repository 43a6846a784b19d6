// Package corpus merges every registered source adapter into one view of
// the poem collection.
package corpus

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"math/rand"
	"time"

	"shicihub/internal/sources"
	"shicihub/pkg/models"
)

// Aggregator answers corpus-wide reads over an ordered adapter registry.
// Adapter order decides both the order of GetAll and which adapter wins a
// GetByID when two sources emit the same id string.
type Aggregator struct {
	adapters []sources.Adapter
	now      func() time.Time
	intn     func(n int) int
	logger   *log.Logger
}

type Options struct {
	Now    func() time.Time // clock for GetDaily; time.Now when nil
	Logger *log.Logger
}

func New(adapters []sources.Adapter, opts Options) *Aggregator {
	a := &Aggregator{
		adapters: adapters,
		now:      opts.Now,
		intn:     rand.Intn,
		logger:   opts.Logger,
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.logger == nil {
		a.logger = log.Default()
	}
	return a
}

// Adapters returns the registry in lookup order.
func (a *Aggregator) Adapters() []sources.Adapter {
	return a.adapters
}

// GetAll concatenates every adapter's list in registry order. An adapter
// that fails is logged and skipped.
func (a *Aggregator) GetAll(ctx context.Context) []models.Poem {
	var all []models.Poem
	for _, ad := range a.adapters {
		poems, err := ad.List(ctx)
		if err != nil {
			a.logger.Printf("[corpus] list %s: %v", ad.Name(), err)
			continue
		}
		all = append(all, poems...)
	}
	return all
}

// GetByID asks each adapter in turn and returns the first hit. It returns
// nil when no adapter knows the id.
func (a *Aggregator) GetByID(ctx context.Context, id string) *models.Poem {
	if id == "" {
		return nil
	}
	for _, ad := range a.adapters {
		p, err := ad.GetByID(ctx, id)
		if err != nil {
			a.logger.Printf("[corpus] get %s from %s: %v", id, ad.Name(), err)
			continue
		}
		if p != nil {
			return p
		}
	}
	return nil
}

// GetRandom draws uniformly over the whole corpus; nil when it is empty.
func (a *Aggregator) GetRandom(ctx context.Context) *models.Poem {
	return a.pick(ctx, a.intn)
}

// GetDaily returns the same poem to every caller on a given server-local
// calendar date.
func (a *Aggregator) GetDaily(ctx context.Context) *models.Poem {
	today := a.now()
	return a.pick(ctx, func(n int) int { return dailyIndex(today, n) })
}

// pick resolves a position in GetAll order without listing the corpus:
// adapters are counted, and only the one holding the position is read.
func (a *Aggregator) pick(ctx context.Context, choose func(n int) int) *models.Poem {
	counts := a.counts(ctx, sources.Filter{})
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return nil
	}

	i := choose(total)
	for k, ad := range a.adapters {
		if i >= counts[k] {
			i -= counts[k]
			continue
		}
		poems, err := sources.Paged(ad).Range(ctx, sources.Filter{}, i, 1)
		if err != nil {
			a.logger.Printf("[corpus] range %s: %v", ad.Name(), err)
			return nil
		}
		if len(poems) == 0 {
			return nil
		}
		return &poems[0]
	}
	return nil
}

// counts returns each adapter's filtered size in registry order; a failing
// adapter counts as empty.
func (a *Aggregator) counts(ctx context.Context, f sources.Filter) []int {
	out := make([]int, len(a.adapters))
	for k, ad := range a.adapters {
		n, err := sources.Paged(ad).Count(ctx, f)
		if err != nil {
			a.logger.Printf("[corpus] count %s: %v", ad.Name(), err)
			continue
		}
		out[k] = n
	}
	return out
}

func dailyIndex(t time.Time, n int) int {
	y, m, d := t.Date()
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%d-%d-%d", y, int(m), d)
	return int(h.Sum32() % uint32(n))
}

// Search returns the union of every adapter's own substring search, each
// poem once. Adapter errors are logged and that adapter contributes nothing.
func (a *Aggregator) Search(ctx context.Context, query string) []models.Poem {
	seen := make(map[string]bool)
	var out []models.Poem
	for _, ad := range a.adapters {
		found, err := ad.Search(ctx, query)
		if err != nil {
			a.logger.Printf("[corpus] search %s: %v", ad.Name(), err)
			continue
		}
		for _, p := range found {
			k := p.Key()
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, p)
		}
	}
	return out
}
