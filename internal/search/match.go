package search

import (
	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

// Points per matching field. A poem's score is the sum over every field
// that matched, so multi-field hits outrank single-field ones.
const (
	ScoreTitle   = 100
	ScoreAuthor  = 80
	ScoreContent = 60
	ScoreTag     = 40
)

// Match tests the folded query against p's fields. The reported type is the
// first matching field in title, author, content, tag order; score is 0
// when nothing matched.
func Match(p models.Poem, foldedQuery string) (models.MatchType, int) {
	var (
		mt    models.MatchType
		score int
	)
	hit := func(t models.MatchType, points int) {
		if mt == "" {
			mt = t
		}
		score += points
	}

	if utils.Contains(p.Title, foldedQuery) {
		hit(models.MatchTitle, ScoreTitle)
	}
	if utils.Contains(p.Author, foldedQuery) {
		hit(models.MatchAuthor, ScoreAuthor)
	}
	if utils.AnyContains(p.Content, foldedQuery) {
		hit(models.MatchContent, ScoreContent)
	}
	if utils.AnyContains(p.Tags, foldedQuery) {
		hit(models.MatchTag, ScoreTag)
	}
	return mt, score
}
