package search

import (
	"context"
	"log"
	"strings"
	"time"

	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

const (
	DefaultLimit   = 50
	MaxLimit       = 200
	DefaultTimeout = 2 * time.Second
)

// Options shape one search call.
type Options struct {
	Limit   int
	Offset  int
	Dynasty string // exact match; "", "all" and "全部" disable the filter
	SortBy  SortBy
}

func normalizeOptions(o Options) Options {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	o.Dynasty = strings.TrimSpace(o.Dynasty)
	switch o.Dynasty {
	case "all", "全部":
		o.Dynasty = ""
	}
	if o.SortBy == "" {
		o.SortBy = SortRelevance
	}
	return o
}

type Config struct {
	Corpus  Corpus
	Backend Backend       // nil means every query takes the local path
	Timeout time.Duration // bound on one Backend call; DefaultTimeout when 0
	Popular PopularSource // query log behind Popular; optional
	Logger  *log.Logger
}

type Engine struct {
	corpus  Corpus
	backend Backend
	timeout time.Duration
	popular PopularSource
	logger  *log.Logger
}

func NewEngine(cfg Config) *Engine {
	e := &Engine{
		corpus:  cfg.Corpus,
		backend: cfg.Backend,
		timeout: cfg.Timeout,
		popular: cfg.Popular,
		logger:  cfg.Logger,
	}
	if e.timeout <= 0 {
		e.timeout = DefaultTimeout
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	return e
}

// Search returns one page of ranked results. It never fails: backend
// errors are logged and answered from the local corpus, and no match is an
// empty slice.
func (e *Engine) Search(ctx context.Context, query string, opts Options) []models.RankedResult {
	results, _ := e.search(ctx, query, opts)
	return results
}

func (e *Engine) search(ctx context.Context, query string, opts Options) ([]models.RankedResult, path) {
	text := strings.TrimSpace(query)
	if text == "" {
		return []models.RankedResult{}, pathNone
	}
	opts = normalizeOptions(opts)

	q := Query{Text: text, Dynasty: opts.Dynasty}
	candidates, p := e.candidates(ctx, q)
	results := score(candidates, q)
	rank(results, opts.SortBy)
	return paginate(results, opts.Limit, opts.Offset), p
}

// score applies the dynasty predicate, then keeps every candidate that
// matches on a canonical field.
func score(candidates []models.Poem, q Query) []models.RankedResult {
	folded := utils.Fold(q.Text)
	seen := make(map[string]bool, len(candidates))
	out := make([]models.RankedResult, 0, len(candidates))
	for _, p := range candidates {
		if q.Dynasty != "" && p.Dynasty != q.Dynasty {
			continue
		}
		if seen[p.Key()] {
			continue
		}
		seen[p.Key()] = true

		mt, s := Match(p, folded)
		if s == 0 {
			continue
		}
		out = append(out, models.RankedResult{Poem: p, MatchType: mt, MatchScore: s})
	}
	return out
}
