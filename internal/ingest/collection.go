// Package ingest bulk-loads the large chinese-poetry collections (全唐诗,
// 全宋诗, 宋词) into the poems table served by the store source.
package ingest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

// Collection describes one dump directory of the chinese-poetry project.
type Collection struct {
	Name     string // stored as the poem source
	Dir      string // relative to the data directory
	Prefix   string // file name prefix, e.g. "poet.tang."
	Dynasty  string
	Tag      string // collection tag added to every poem
	Rhythmic bool   // title comes from the "rhythmic" field (词牌)
}

var Collections = map[string]Collection{
	"tang":    {Name: "tang", Dir: "全唐诗", Prefix: "poet.tang.", Dynasty: "唐", Tag: "唐诗"},
	"songshi": {Name: "songshi", Dir: "全宋诗", Prefix: "poet.song.", Dynasty: "宋", Tag: "宋诗"},
	"songci":  {Name: "songci", Dir: "宋词", Prefix: "ci.song.", Dynasty: "宋", Tag: "宋词", Rhythmic: true},
}

// Lookup returns the named collection.
func Lookup(name string) (Collection, error) {
	c, ok := Collections[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Collection{}, fmt.Errorf("unknown collection %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return c, nil
}

func Names() []string {
	out := make([]string, 0, len(Collections))
	for n := range Collections {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// rawPoem is a record as shipped in the dump files.
type rawPoem struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Rhythmic   string   `json:"rhythmic"`
	Author     string   `json:"author"`
	Paragraphs []string `json:"paragraphs"`
	Tags       []string `json:"tags"`
}

// idSpace namespaces the name-based ids of records that ship without one.
var idSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/chinese-poetry/chinese-poetry"))

// normalize maps one file's records. Records without lines are dropped; a
// missing id is derived from collection, file and position, so re-running
// an ingest updates rows instead of duplicating them.
func normalize(c Collection, file string, raws []rawPoem) []models.Poem {
	out := make([]models.Poem, 0, len(raws))
	for i, r := range raws {
		lines := utils.CleanLines(r.Paragraphs)
		if len(lines) == 0 {
			continue
		}

		title := r.Title
		if c.Rhythmic && strings.TrimSpace(r.Rhythmic) != "" {
			title = r.Rhythmic
		}

		id := strings.TrimSpace(r.ID)
		if id == "" {
			id = uuid.NewSHA1(idSpace, []byte(fmt.Sprintf("%s/%s/%d", c.Name, file, i))).String()
		}

		tags := append([]string{c.Tag}, r.Tags...)
		out = append(out, models.Poem{
			ID:      id,
			Title:   utils.OrDefault(title, utils.Untitled),
			Author:  utils.OrDefault(r.Author, utils.Anonymous),
			Dynasty: c.Dynasty,
			Content: lines,
			Tags:    utils.Dedupe(tags...),
			Source:  c.Name,
			Metadata: map[string]any{
				"file":  file,
				"index": i,
			},
		})
	}
	return out
}
