package corpus

import (
	"context"
	"sort"
	"strings"

	"shicihub/internal/sources"
	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

const DefaultPageSize = 24

// ListQuery pages through the corpus for the browse view.
type ListQuery struct {
	Dynasty string // exact match; "", "all" and "全部" mean every dynasty
	Q       string // substring over title and author
	Limit   int
	Offset  int
}

// IsAllDynasties reports whether d is one of the "no filter" values.
func IsAllDynasties(d string) bool {
	switch strings.TrimSpace(d) {
	case "", "all", "全部":
		return true
	}
	return false
}

// List returns one page of the filtered corpus and the filtered total.
// Each adapter filters and pages on its own side; only the adapters the page
// overlaps are read.
func (a *Aggregator) List(ctx context.Context, q ListQuery) ([]models.Poem, int) {
	if q.Limit <= 0 {
		q.Limit = DefaultPageSize
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	f := sources.Filter{Q: utils.Fold(strings.TrimSpace(q.Q))}
	if !IsAllDynasties(q.Dynasty) {
		f.Dynasty = strings.TrimSpace(q.Dynasty)
	}

	counts := a.counts(ctx, f)
	total := 0
	for _, n := range counts {
		total += n
	}

	items := []models.Poem{}
	offset, want := q.Offset, q.Limit
	for k, ad := range a.adapters {
		if want == 0 {
			break
		}
		if offset >= counts[k] {
			offset -= counts[k]
			continue
		}
		page, err := sources.Paged(ad).Range(ctx, f, offset, want)
		if err != nil {
			a.logger.Printf("[corpus] range %s: %v", ad.Name(), err)
		}
		items = append(items, page...)
		want -= min(len(page), want)
		offset = 0
	}
	return items, total
}

// Authors counts poems per author, most prolific first. The dynasty shown
// is the one of the author's first poem in corpus order.
func (a *Aggregator) Authors(ctx context.Context) []models.AuthorCount {
	idx := make(map[string]int)
	var out []models.AuthorCount
	for _, ad := range a.adapters {
		counts, err := sources.Paged(ad).Authors(ctx)
		if err != nil {
			a.logger.Printf("[corpus] authors %s: %v", ad.Name(), err)
			continue
		}
		for _, ac := range counts {
			if i, ok := idx[ac.Author]; ok {
				out[i].Count += ac.Count
				continue
			}
			idx[ac.Author] = len(out)
			out = append(out, ac)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Author < out[j].Author
	})
	return out
}

// Stats reports the poem count of each adapter in registry order.
func (a *Aggregator) Stats(ctx context.Context) []models.SourceStat {
	counts := a.counts(ctx, sources.Filter{})
	out := make([]models.SourceStat, 0, len(a.adapters))
	for k, ad := range a.adapters {
		out = append(out, models.SourceStat{Source: ad.Name(), Poems: counts[k]})
	}
	return out
}

// Dynasties lists the distinct dynasty labels in first-seen order.
func (a *Aggregator) Dynasties(ctx context.Context) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ad := range a.adapters {
		labels, err := sources.Paged(ad).Dynasties(ctx)
		if err != nil {
			a.logger.Printf("[corpus] dynasties %s: %v", ad.Name(), err)
			continue
		}
		for _, d := range labels {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out
}
