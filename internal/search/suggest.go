package search

import (
	"context"
	"sort"
	"strings"

	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

const (
	DefaultSuggestLimit = 8
	suggestPerType      = 5
)

// Suggest offers completions for a partial query: matching titles first,
// then authors, then tags, at most five of each. Authors and tags carry the
// number of poems behind them. Only the corpus search hits are tallied:
// every poem whose title, author or a tag contains the text is among them.
func (e *Engine) Suggest(ctx context.Context, prefix string, limit int) []models.Suggestion {
	text := strings.TrimSpace(prefix)
	q := utils.Fold(text)
	if q == "" {
		return []models.Suggestion{}
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	var (
		titles  []models.Suggestion
		seen    = make(map[string]bool)
		authors = newCounter()
		tags    = newCounter()
	)
	for _, p := range e.corpus.Search(ctx, text) {
		if len(titles) < suggestPerType && !seen[p.Title] && utils.Contains(p.Title, q) {
			seen[p.Title] = true
			titles = append(titles, models.Suggestion{Type: models.SuggestPoem, Text: p.Title})
		}
		if utils.Contains(p.Author, q) {
			authors.add(p.Author)
		}
		for _, t := range p.Tags {
			if utils.Contains(t, q) {
				tags.add(t)
			}
		}
	}

	out := make([]models.Suggestion, 0, limit)
	out = append(out, titles...)
	out = append(out, authors.top(models.SuggestAuthor, suggestPerType)...)
	out = append(out, tags.top(models.SuggestTag, suggestPerType)...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// counter tallies values in first-seen order.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(v string) {
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

// top returns the n most frequent values; ties keep first-seen order.
func (c *counter) top(t models.SuggestionType, n int) []models.Suggestion {
	out := make([]models.Suggestion, 0, len(c.order))
	for _, v := range c.order {
		out = append(out, models.Suggestion{Type: t, Text: v, Count: c.counts[v]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
