package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shicihub/internal/corpus"
	"shicihub/internal/sources"
	"shicihub/pkg/models"
)

func TestSuggestGroupsByType(t *testing.T) {
	e := NewEngine(Config{Corpus: testCorpus(t), Logger: quiet()})

	got := e.Suggest(context.Background(), "明月", 20)
	require.NotEmpty(t, got)

	// titles, then authors, then tags
	order := map[models.SuggestionType]int{models.SuggestPoem: 0, models.SuggestAuthor: 1, models.SuggestTag: 2}
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, order[got[i-1].Type], order[got[i].Type])
	}

	assert.Contains(t, got, models.Suggestion{Type: models.SuggestPoem, Text: "明月"})
	assert.Contains(t, got, models.Suggestion{Type: models.SuggestAuthor, Text: "明月居士", Count: 1})
	assert.Contains(t, got, models.Suggestion{Type: models.SuggestTag, Text: "明月", Count: 1})
}

func TestSuggestCapsPerTypeAndTotal(t *testing.T) {
	var poems []models.Poem
	for _, title := range []string{"春一", "春二", "春三", "春四", "春五", "春六", "春七"} {
		poems = append(poems, poem(title, title, "春风客", "唐", []string{"句"}, []string{"春"}))
	}
	c := corpus.New([]sources.Adapter{sources.NewStatic("t", poems)}, corpus.Options{Logger: quiet()})
	e := NewEngine(Config{Corpus: c, Logger: quiet()})

	got := e.Suggest(context.Background(), "春", 20)
	counts := map[models.SuggestionType]int{}
	for _, s := range got {
		counts[s.Type]++
	}
	assert.Equal(t, 5, counts[models.SuggestPoem])
	assert.Equal(t, 1, counts[models.SuggestAuthor])
	assert.Equal(t, 1, counts[models.SuggestTag])
	assert.Equal(t, models.Suggestion{Type: models.SuggestAuthor, Text: "春风客", Count: 7}, got[5])

	assert.Len(t, e.Suggest(context.Background(), "春", 0), DefaultSuggestLimit-1)
	assert.Len(t, e.Suggest(context.Background(), "春", 3), 3)
	assert.Empty(t, e.Suggest(context.Background(), "  ", 5))
}

type fakePopular struct {
	terms []models.PopularTerm
	err   error
	limit int
}

func (f *fakePopular) Popular(_ context.Context, limit int) ([]models.PopularTerm, error) {
	f.limit = limit
	return f.terms, f.err
}

func TestPopularPrefersLog(t *testing.T) {
	src := &fakePopular{terms: []models.PopularTerm{{Text: "离骚", Count: 3}}}
	e := NewEngine(Config{Corpus: testCorpus(t), Popular: src, Logger: quiet()})

	got := e.Popular(context.Background(), 0)
	assert.Equal(t, src.terms, got)
	assert.Equal(t, DefaultPopularLimit, src.limit)
}

func TestPopularFallsBackToStaticList(t *testing.T) {
	ctx := context.Background()
	for name, src := range map[string]PopularSource{
		"no log":    nil,
		"empty log": &fakePopular{},
		"log error": &fakePopular{err: errors.New("no such table: search_logs")},
	} {
		e := NewEngine(Config{Corpus: testCorpus(t), Popular: src, Logger: quiet()})
		got := e.Popular(ctx, 3)
		require.Len(t, got, 3, name)
		assert.Equal(t, models.PopularTerm{Text: "李白", Count: 1280}, got[0], name)
	}

	e := NewEngine(Config{Corpus: testCorpus(t), Logger: quiet()})
	got := e.Popular(ctx, 100)
	assert.Len(t, got, len(staticPopular))
	got[0].Count = 0
	assert.Equal(t, 1280, staticPopular[0].Count)
}
