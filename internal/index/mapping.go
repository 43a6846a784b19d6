package index

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"

	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

const (
	fieldTitle   = "title"
	fieldAuthor  = "author"
	fieldContent = "content"
	fieldTags    = "tags"
	fieldDynasty = "dynasty"
)

// textFields are matched by substring; each value is one keyword term.
var textFields = []string{fieldTitle, fieldAuthor, fieldContent, fieldTags}

// poemMapping indexes every field untokenized so a regexp over the term is
// a substring test over the original value.
func poemMapping() *mapping.IndexMappingImpl {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = keyword.Name

	doc := bleve.NewDocumentMapping()
	for _, f := range append(textFields, fieldDynasty) {
		fm := bleve.NewKeywordFieldMapping()
		fm.Store = false
		fm.IncludeInAll = false
		fm.IncludeTermVectors = false
		doc.AddFieldMappingsAt(f, fm)
	}
	im.DefaultMapping = doc
	return im
}

// document is the indexed form of a poem: folded text fields, raw dynasty.
func document(p models.Poem) map[string]any {
	return map[string]any{
		fieldTitle:   utils.Fold(p.Title),
		fieldAuthor:  utils.Fold(p.Author),
		fieldContent: foldAll(p.Content),
		fieldTags:    foldAll(p.Tags),
		fieldDynasty: p.Dynasty,
	}
}

func foldAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = utils.Fold(v)
	}
	return out
}
