package sources

import (
	"fmt"

	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

// nalanItem uses "para" rather than "paragraphs" for the lines.
type nalanItem struct {
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Para   []string `json:"para"`
}

func NewNalan(path string) Adapter {
	return newCollection("nalanxingde", jsonList[nalanItem](path), normalizeNalan)
}

func normalizeNalan(items []nalanItem) []models.Poem {
	poems := make([]models.Poem, 0, len(items))
	for i, it := range items {
		poems = append(poems, models.Poem{
			ID:       fmt.Sprintf("nalan-%d", i),
			Title:    utils.OrDefault(it.Title, untitled),
			Author:   utils.OrDefault(it.Author, "纳兰性德"),
			Dynasty:  "清",
			Content:  utils.CleanLines(it.Para),
			Tags:     utils.Dedupe("纳兰性德", "清", "词", "婉约派"),
			Source:   "nalanxingde",
			Metadata: map[string]any{"type": "ci"},
		})
	}
	return poems
}
