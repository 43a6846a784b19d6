package ingest

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shicihub/internal/sources"
	"shicihub/pkg/database"
)

const tangFile = `[
  {"id": "3ad6d468-7ff1-4a7b-8b24-a27d70d00ed4", "title": "静夜思", "author": "李白",
   "paragraphs": ["床前明月光，疑是地上霜。", "举头望明月，低头思故乡。"], "tags": ["思乡"]},
  {"id": "8c2b1a3e-0000-4000-8000-000000000002", "title": "", "author": "",
   "paragraphs": ["无名之句。"]},
  {"id": "8c2b1a3e-0000-4000-8000-000000000003", "title": "空", "author": "某", "paragraphs": []}
]`

const songciFile = `[
  {"rhythmic": "水调歌头", "author": "苏轼", "paragraphs": ["明月几时有？把酒问青天。"]},
  {"rhythmic": "声声慢", "author": "李清照", "paragraphs": ["寻寻觅觅，冷冷清清，凄凄惨惨戚戚。"]},
  {"rhythmic": "如梦令", "author": "李清照", "paragraphs": ["常记溪亭日暮，沉醉不知归路。"]}
]`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func setup(t *testing.T) (string, *Ingester) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "全唐诗", "poet.tang.0.json"), tangFile)
	writeFile(t, filepath.Join(dir, "全唐诗", "poet.tang.1000.json"), `[{"title": `)
	writeFile(t, filepath.Join(dir, "全唐诗", "authors.tang.json"), `[]`)
	writeFile(t, filepath.Join(dir, "宋词", "ci.song.0.json"), songciFile)

	db, err := database.Open(filepath.Join(dir, "ingest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	in := New(db)
	in.Logger = log.New(io.Discard, "", 0)
	return dir, in
}

func TestRunTangSkipsBrokenFiles(t *testing.T) {
	dir, in := setup(t)
	ctx := context.Background()

	res, err := in.Run(ctx, dir, Collections["tang"])
	require.NoError(t, err)
	assert.Equal(t, 1, res.Files)
	assert.Equal(t, 2, res.Poems)
	assert.Equal(t, []string{"poet.tang.1000.json"}, res.Failed)

	store := sources.NewStore(in.DB)
	poems, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, poems, 2)

	assert.Equal(t, "3ad6d468-7ff1-4a7b-8b24-a27d70d00ed4", poems[0].ID)
	assert.Equal(t, "唐", poems[0].Dynasty)
	assert.Equal(t, "tang", poems[0].Source)
	assert.Equal(t, []string{"唐诗", "思乡"}, poems[0].Tags)
	assert.Equal(t, "无题", poems[1].Title)
	assert.Equal(t, "佚名", poems[1].Author)
}

func TestRunSongciBatchesAndStableIDs(t *testing.T) {
	dir, in := setup(t)
	ctx := context.Background()
	in.BatchSize = 2

	var progress []Progress
	in.OnProgress = func(p Progress) { progress = append(progress, p) }

	res, err := in.Run(ctx, dir, Collections["songci"])
	require.NoError(t, err)
	assert.Equal(t, 3, res.Poems)
	assert.Equal(t, []Progress{
		{File: "ci.song.0.json", Done: 2, Total: 3},
		{File: "ci.song.0.json", Done: 3, Total: 3},
	}, progress)

	store := sources.NewStore(in.DB)
	first, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, "水调歌头", first[0].Title)
	assert.Equal(t, "宋", first[0].Dynasty)
	assert.IsType(t, 0, first[0].Metadata["index"], "stored metadata keeps integer types")

	// a second run upserts onto the same ids
	_, err = in.Run(ctx, dir, Collections["songci"])
	require.NoError(t, err)
	n, err := store.Count(ctx, sources.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	second, err := store.List(ctx)
	require.NoError(t, err)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}

	found, err := store.Search(ctx, "李清照")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestRunWithoutFiles(t *testing.T) {
	_, in := setup(t)
	_, err := in.Run(context.Background(), t.TempDir(), Collections["songshi"])
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	c, err := Lookup(" Tang ")
	require.NoError(t, err)
	assert.Equal(t, "poet.tang.", c.Prefix)

	_, err = Lookup("yuanqu")
	assert.Error(t, err)
	assert.Equal(t, []string{"songci", "songshi", "tang"}, Names())
}

func TestNormalizeDerivesIDsDeterministically(t *testing.T) {
	raws := []rawPoem{{Rhythmic: "浣溪沙", Title: "ignored", Paragraphs: []string{"一曲新词酒一杯"}}}
	a := normalize(Collections["songci"], "ci.song.1.json", raws)
	b := normalize(Collections["songci"], "ci.song.1.json", raws)
	c := normalize(Collections["songci"], "ci.song.2.json", raws)
	require.Len(t, a, 1)
	assert.Equal(t, a[0].ID, b[0].ID)
	assert.NotEqual(t, a[0].ID, c[0].ID)
	assert.Equal(t, "浣溪沙", a[0].Title)
}
