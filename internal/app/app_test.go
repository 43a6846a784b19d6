package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shicihub/internal/ingest"
	"shicihub/internal/search"
	"shicihub/pkg/models"
	"shicihub/pkg/utils"
)

func testConfig(t *testing.T, backend string) utils.AppConfig {
	t.Helper()
	return utils.AppConfig{
		DataDir:        "../sources/testdata",
		DBPath:         filepath.Join(t.TempDir(), "app.db"),
		GRPCAddr:       "127.0.0.1:1",
		SearchBackend:  backend,
		BackendTimeout: 200 * time.Millisecond,
		IndexRefresh:   0,
		Sources: []utils.SourceConfig{
			{Name: "builtin"},
			{Name: "store"},
			{Name: "chuci"},
			{Name: "lunyu"},
		},
	}
}

func TestNewWiresEveryBackend(t *testing.T) {
	for _, backend := range []string{utils.BackendNone, utils.BackendIndex, utils.BackendGRPC} {
		t.Run(backend, func(t *testing.T) {
			a, err := New(context.Background(), testConfig(t, backend))
			require.NoError(t, err)
			defer a.Close()

			assert.Equal(t, backend == utils.BackendIndex, a.Index != nil)
			if a.Index != nil {
				assert.Equal(t, 17, a.Index.Len())
			}

			got := a.Engine.Search(context.Background(), "离骚", search.Options{})
			require.NotEmpty(t, got)
			assert.Equal(t, "离骚", got[0].Title)
			assert.Equal(t, models.MatchTitle, got[0].MatchType)
		})
	}
}

func TestPopularReadsQueryLog(t *testing.T) {
	a, err := New(context.Background(), testConfig(t, utils.BackendNone))
	require.NoError(t, err)
	defer a.Close()

	rec := search.NewRecorder(a.Logs, nil, nil)
	rec.Record("离骚", "", 1)
	rec.Record("离骚", "", 1)
	rec.Record("子曰", "", 5)
	rec.Close()

	got := a.Engine.Popular(context.Background(), 5)
	assert.Equal(t, []models.PopularTerm{{Text: "离骚", Count: 2}, {Text: "子曰", Count: 1}}, got)
}

func TestNewRejectsUnknownSource(t *testing.T) {
	cfg := testConfig(t, utils.BackendNone)
	cfg.Sources = []utils.SourceConfig{{Name: "quantangshi"}}
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestStoredPoemsMatchTheSameOnEveryPath(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t, utils.BackendIndex))
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, ingest.SaveToDatabase(ctx, a.DB, []models.Poem{{
		ID: "tang-jys", Title: "静夜思", Author: "李白", Dynasty: "唐",
		Content: []string{"床前明月光，疑是地上霜。", "举头望明月，低头思故乡。"},
		Tags:    []string{"唐诗"}, Source: "tang",
	}}))
	require.NoError(t, a.Index.Refresh(ctx))

	local := search.NewEngine(search.Config{Corpus: a.Corpus})
	for _, q := range []string{"明月光,疑是", "明月光，疑是", "望明月"} {
		hits, err := a.Index.SearchPoems(ctx, search.Query{Text: q})
		require.NoError(t, err)
		fromStore := a.Corpus.Search(ctx, q)

		hitKeys, storeKeys := map[string]bool{}, map[string]bool{}
		for _, p := range hits {
			hitKeys[p.Key()] = true
		}
		for _, p := range fromStore {
			storeKeys[p.Key()] = true
		}
		assert.True(t, hitKeys["tang/tang-jys"], q)
		assert.True(t, storeKeys["tang/tang-jys"], q)

		assert.Equal(t, local.Search(ctx, q, search.Options{}), a.Engine.Search(ctx, q, search.Options{}), q)
	}
}
