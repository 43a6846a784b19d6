package sources

import (
	"fmt"

	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

type caocaoItem struct {
	Title      string   `json:"title"`
	Paragraphs []string `json:"paragraphs"`
}

// NewCaocao returns the Cao Cao anthology; every poem is by Cao Cao and
// belongs to the late Han.
func NewCaocao(path string) Adapter {
	return newCollection("caocao", jsonList[caocaoItem](path), normalizeCaocao)
}

func normalizeCaocao(items []caocaoItem) []models.Poem {
	poems := make([]models.Poem, 0, len(items))
	for i, it := range items {
		poems = append(poems, models.Poem{
			ID:       fmt.Sprintf("caocao-%d", i),
			Title:    utils.OrDefault(it.Title, untitled),
			Author:   "曹操",
			Dynasty:  "汉末",
			Content:  utils.CleanLines(it.Paragraphs),
			Tags:     utils.Dedupe("曹操诗集", "曹操", "汉末", "建安文学"),
			Source:   "caocao",
			Metadata: map[string]any{"type": "poem"},
		})
	}
	return poems
}
