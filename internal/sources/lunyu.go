package sources

import (
	"fmt"

	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

// lunyuChapter is one chapter of the Analects as shipped:
//
//	[{"chapter": "学而篇", "paragraphs": ["子曰：学而时习之……", ...]}, ...]
type lunyuChapter struct {
	Chapter    string   `json:"chapter"`
	Paragraphs []string `json:"paragraphs"`
}

// NewLunyu returns the Analects adapter. The native unit is a chapter; each
// paragraph becomes its own poem ("lunyu-1", "lunyu-2", ...).
func NewLunyu(path string) Adapter {
	return newCollection("lunyu", jsonList[lunyuChapter](path), normalizeLunyu, "chapter")
}

func normalizeLunyu(chapters []lunyuChapter) []models.Poem {
	var poems []models.Poem
	n := 0
	for _, ch := range chapters {
		chapter := utils.OrDefault(ch.Chapter, untitled)
		for i, para := range ch.Paragraphs {
			lines := utils.CleanLines([]string{para})
			if len(lines) == 0 {
				continue
			}
			n++
			poems = append(poems, models.Poem{
				ID:      fmt.Sprintf("lunyu-%d", n),
				Title:   fmt.Sprintf("%s·第%d段", chapter, i+1),
				Author:  "孔子及其弟子",
				Dynasty: "春秋",
				Content: lines,
				Tags:    utils.Dedupe("论语", "儒家", "经典", chapter),
				Source:  "lunyu",
				Metadata: map[string]any{
					"chapter":         chapter,
					"paragraph_index": i,
					"original_text":   para,
				},
			})
		}
	}
	return poems
}
