package sources

import (
	"context"

	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

// Filter narrows a paged read. Dynasty is an exact label, "" for every
// dynasty; Q is an already folded substring of title or author, "" for none.
type Filter struct {
	Dynasty string
	Q       string
}

func (f Filter) Match(p models.Poem) bool {
	if f.Dynasty != "" && p.Dynasty != f.Dynasty {
		return false
	}
	if f.Q != "" && !utils.Contains(p.Title, f.Q) && !utils.Contains(p.Author, f.Q) {
		return false
	}
	return true
}

// Pager reads an adapter's poems a slice at a time. Offsets index the
// filtered List order, so Count and Range agree with List.
type Pager interface {
	Count(ctx context.Context, f Filter) (int, error)
	Range(ctx context.Context, f Filter, offset, limit int) ([]models.Poem, error)
	// Authors counts poems per author in first-seen order; the dynasty is
	// the one of the author's first poem.
	Authors(ctx context.Context) ([]models.AuthorCount, error)
	// Dynasties lists the distinct dynasty labels in first-seen order.
	Dynasties(ctx context.Context) ([]string, error)
}

// Paged returns ad's own Pager when it has one (the store pushes paging
// into SQL), otherwise a Pager over its List.
func Paged(ad Adapter) Pager {
	if p, ok := ad.(Pager); ok {
		return p
	}
	return listPager{ad}
}

type listPager struct{ ad Adapter }

func (l listPager) filtered(ctx context.Context, f Filter) ([]models.Poem, error) {
	all, err := l.ad.List(ctx)
	if err != nil {
		return nil, err
	}
	if f == (Filter{}) {
		return all, nil
	}
	out := make([]models.Poem, 0, len(all))
	for _, p := range all {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (l listPager) Count(ctx context.Context, f Filter) (int, error) {
	poems, err := l.filtered(ctx, f)
	return len(poems), err
}

func (l listPager) Range(ctx context.Context, f Filter, offset, limit int) ([]models.Poem, error) {
	poems, err := l.filtered(ctx, f)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(poems) || limit <= 0 {
		return []models.Poem{}, nil
	}
	return poems[offset:min(offset+limit, len(poems))], nil
}

func (l listPager) Authors(ctx context.Context) ([]models.AuthorCount, error) {
	poems, err := l.ad.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int)
	var out []models.AuthorCount
	for _, p := range poems {
		if i, ok := idx[p.Author]; ok {
			out[i].Count++
			continue
		}
		idx[p.Author] = len(out)
		out = append(out, models.AuthorCount{Author: p.Author, Dynasty: p.Dynasty, Count: 1})
	}
	return out, nil
}

func (l listPager) Dynasties(ctx context.Context) ([]string, error) {
	poems, err := l.ad.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, p := range poems {
		if !seen[p.Dynasty] {
			seen[p.Dynasty] = true
			out = append(out, p.Dynasty)
		}
	}
	return out, nil
}
