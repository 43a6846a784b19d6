package sources

import (
	"fmt"
	"strings"

	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

type chuciItem struct {
	Title   string   `json:"title"`
	Section string   `json:"section"`
	Author  string   `json:"author"`
	Content []string `json:"content"`
}

// NewChuci returns the Chu Ci adapter ("chuci-1", ...). Dynasty follows the
// author since the anthology spans several periods.
func NewChuci(path string) Adapter {
	return newCollection("chuci", jsonList[chuciItem](path), normalizeChuci, "section")
}

func normalizeChuci(items []chuciItem) []models.Poem {
	poems := make([]models.Poem, 0, len(items))
	for i, it := range items {
		author := utils.OrDefault(it.Author, anonymous)
		lines := utils.CleanLines(it.Content)
		poems = append(poems, models.Poem{
			ID:      fmt.Sprintf("chuci-%d", i+1),
			Title:   utils.OrDefault(it.Title, untitled),
			Author:  author,
			Dynasty: lookupDynasty(chuciDynasties, author, "战国"),
			Content: lines,
			Tags:    utils.Dedupe("楚辞", "楚辞体", "诗歌", it.Section, author),
			Source:  "chuci",
			Metadata: map[string]any{
				"section":       strings.TrimSpace(it.Section),
				"original_text": strings.Join(it.Content, "\n"),
			},
		})
	}
	return poems
}
