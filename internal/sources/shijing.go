package sources

import (
	"fmt"
	"strings"

	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

// shijingItem: chapter is 国风/小雅/大雅/颂, section is 周南/召南/...
type shijingItem struct {
	Title   string   `json:"title"`
	Chapter string   `json:"chapter"`
	Section string   `json:"section"`
	Content []string `json:"content"`
}

func NewShijing(path string) Adapter {
	return newCollection("shijing", jsonList[shijingItem](path), normalizeShijing, "chapter", "section")
}

func normalizeShijing(items []shijingItem) []models.Poem {
	poems := make([]models.Poem, 0, len(items))
	for i, it := range items {
		id := fmt.Sprintf("shijing_%d", i+1)
		poems = append(poems, models.Poem{
			ID:      id,
			Title:   utils.OrDefault(it.Title, untitled),
			Author:  anonymous,
			Dynasty: "先秦",
			Content: utils.CleanLines(it.Content),
			Tags:    utils.Dedupe("诗经", it.Chapter, it.Section),
			Source:  "shijing",
			Metadata: map[string]any{
				"chapter":     strings.TrimSpace(it.Chapter),
				"section":     strings.TrimSpace(it.Section),
				"original_id": id,
			},
		})
	}
	return poems
}
