package sources

import (
	"fmt"
	"strings"

	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

type yuanquItem struct {
	Title      string   `json:"title"` // 曲牌名
	Author     string   `json:"author"`
	Dynasty    string   `json:"dynasty"`
	Paragraphs []string `json:"paragraphs"`
}

func NewYuanqu(path string) Adapter {
	return newCollection("yuanqu", jsonList[yuanquItem](path), normalizeYuanqu)
}

func normalizeYuanqu(items []yuanquItem) []models.Poem {
	poems := make([]models.Poem, 0, len(items))
	for i, it := range items {
		id := fmt.Sprintf("yuanqu_%d", i+1)
		author := utils.OrDefault(it.Author, anonymous)
		raw := strings.ToLower(strings.TrimSpace(it.Dynasty))
		dynasty := lookupDynasty(yuanquDynasties, raw, utils.OrDefault(it.Dynasty, "元"))
		poems = append(poems, models.Poem{
			ID:       id,
			Title:    utils.OrDefault(it.Title, untitled),
			Author:   author,
			Dynasty:  dynasty,
			Content:  utils.CleanLines(it.Paragraphs),
			Tags:     utils.Dedupe("元曲", "散曲", author, dynasty),
			Source:   "yuanqu",
			Metadata: map[string]any{"original_id": id},
		})
	}
	return poems
}
