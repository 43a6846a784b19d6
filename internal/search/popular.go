package search

import (
	"context"

	"shicihub/pkg/models"
)

const DefaultPopularLimit = 10

// PopularSource reports the most frequent logged queries.
type PopularSource interface {
	Popular(ctx context.Context, limit int) ([]models.PopularTerm, error)
}

// staticPopular is served while the query log is empty or unreachable.
var staticPopular = []models.PopularTerm{
	{Text: "李白", Count: 1280},
	{Text: "春江花月夜", Count: 890},
	{Text: "相思", Count: 760},
	{Text: "苏轼", Count: 650},
	{Text: "静夜思", Count: 540},
	{Text: "杜甫", Count: 520},
	{Text: "水调歌头", Count: 480},
	{Text: "登高", Count: 420},
	{Text: "白居易", Count: 380},
	{Text: "王维", Count: 350},
}

// Popular lists trending queries from the log, or the static list when the
// log has nothing usable.
func (e *Engine) Popular(ctx context.Context, limit int) []models.PopularTerm {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}

	if e.popular != nil {
		terms, err := e.popular.Popular(ctx, limit)
		if err != nil {
			e.logger.Printf("[search] popular from log: %v", err)
		} else if len(terms) > 0 {
			return terms
		}
	}

	n := min(limit, len(staticPopular))
	out := make([]models.PopularTerm, n)
	copy(out, staticPopular[:n])
	return out
}
