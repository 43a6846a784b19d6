package search

import (
	"sort"
	"strings"

	"shicihub/pkg/models"
)

type SortBy string

const (
	SortRelevance SortBy = "relevance"
	SortTitle     SortBy = "title"
	SortAuthor    SortBy = "author"
	SortDynasty   SortBy = "dynasty"
)

// ParseSortBy maps a request value onto a sort mode; anything unknown is
// relevance.
func ParseSortBy(s string) SortBy {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case SortTitle:
		return SortTitle
	case SortAuthor:
		return SortAuthor
	case SortDynasty:
		return SortDynasty
	}
	return SortRelevance
}

// rank orders results in place. All modes are stable, so equal keys keep
// corpus order.
func rank(results []models.RankedResult, by SortBy) {
	var less func(a, b models.RankedResult) bool
	switch by {
	case SortTitle:
		less = func(a, b models.RankedResult) bool { return a.Title < b.Title }
	case SortAuthor:
		less = func(a, b models.RankedResult) bool { return a.Author < b.Author }
	case SortDynasty:
		less = func(a, b models.RankedResult) bool { return a.Dynasty < b.Dynasty }
	default:
		less = func(a, b models.RankedResult) bool { return a.MatchScore > b.MatchScore }
	}
	sort.SliceStable(results, func(i, j int) bool { return less(results[i], results[j]) })
}

func paginate(results []models.RankedResult, limit, offset int) []models.RankedResult {
	if offset >= len(results) {
		return []models.RankedResult{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}
