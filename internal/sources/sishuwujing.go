package sources

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

type sishuChapter struct {
	Chapter    string   `json:"chapter"`
	Paragraphs []string `json:"paragraphs"`
}

// sishuBook is one book of the Four Books & Five Classics directory.
// 大学 and 中庸 ship as a single chapter object, 孟子 as a chapter list.
type sishuBook struct {
	Key      string // daxue, mengzi, zhongyong
	Chapters []sishuChapter
}

type sishuMeta struct {
	title   string
	author  string
	dynasty string
	perChap bool // one poem per chapter, titled "<book>·<chapter>"
}

var sishuBooks = map[string]sishuMeta{
	"daxue":     {title: "大学", author: "曾子", dynasty: "春秋战国"},
	"mengzi":    {title: "孟子", author: "孟子", dynasty: "战国", perChap: true},
	"zhongyong": {title: "中庸", author: "子思", dynasty: "春秋战国"},
}

// NewSishuwujing reads daxue.json, mengzi.json and zhongyong.json from dir.
func NewSishuwujing(dir string) Adapter {
	return newCollection("sishuwujing", sishuLoader(dir), normalizeSishuwujing, "chapter", "book")
}

func sishuLoader(dir string) func() ([]sishuBook, error) {
	return func() ([]sishuBook, error) {
		var (
			books []sishuBook
			errs  []error
		)

		if ch, err := loadJSON[sishuChapter](filepath.Join(dir, "daxue.json")); err == nil {
			books = append(books, sishuBook{Key: "daxue", Chapters: []sishuChapter{ch}})
		} else {
			errs = append(errs, err)
		}
		if chs, err := loadJSON[[]sishuChapter](filepath.Join(dir, "mengzi.json")); err == nil {
			books = append(books, sishuBook{Key: "mengzi", Chapters: chs})
		} else {
			errs = append(errs, err)
		}
		if ch, err := loadJSON[sishuChapter](filepath.Join(dir, "zhongyong.json")); err == nil {
			books = append(books, sishuBook{Key: "zhongyong", Chapters: []sishuChapter{ch}})
		} else {
			errs = append(errs, err)
		}

		if len(books) == 0 {
			return nil, errors.Join(errs...)
		}
		for _, err := range errs {
			log.Printf("[sources] sishuwujing partial load: %v", err)
		}
		return books, nil
	}
}

func normalizeSishuwujing(books []sishuBook) []models.Poem {
	var poems []models.Poem
	for _, b := range books {
		meta, ok := sishuBooks[b.Key]
		if !ok {
			continue
		}
		for i, ch := range b.Chapters {
			chapter := strings.TrimSpace(ch.Chapter)
			title := meta.title
			if meta.perChap {
				title = fmt.Sprintf("%s·%s", meta.title, utils.OrDefault(chapter, fmt.Sprint(i+1)))
			}
			poems = append(poems, models.Poem{
				ID:      fmt.Sprintf("sishuwujing-%s-%d", b.Key, i+1),
				Title:   title,
				Author:  meta.author,
				Dynasty: meta.dynasty,
				Content: utils.CleanLines(ch.Paragraphs),
				Tags:    utils.Dedupe("四书五经", meta.title, chapter),
				Source:  "sishuwujing",
				Metadata: map[string]any{
					"book":    b.Key,
					"chapter": chapter,
				},
			})
		}
	}
	return poems
}
