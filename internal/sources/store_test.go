package sources

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shicihub/pkg/database"
	"shicihub/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewStore(db)
}

func insertRow(t *testing.T, db *sql.DB, id, title, author, dynasty, content, tags, source string) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO poems (id, title, author, dynasty, content, tags, source, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL)
	`, id, title, author, dynasty, content, tags, source)
	require.NoError(t, err)
}

func TestStoreListAndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertRow(t, s.DB, "tang-1", "将进酒", "李白", "唐", `["君不见黄河之水天上来"]`, `["唐诗"]`, "tang")
	insertRow(t, s.DB, "tang-2", "", "", "", `["  ", "无名之句"]`, `[]`, "")
	insertRow(t, s.DB, "tang-3", "空诗", "某人", "唐", `[]`, `[]`, "tang")

	poems, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, poems, 2, "rows without content are not poems")

	assert.Equal(t, "tang-1", poems[0].ID)
	assert.Equal(t, "tang", poems[0].Source)
	assert.Equal(t, untitled, poems[1].Title)
	assert.Equal(t, anonymous, poems[1].Author)
	assert.Equal(t, "未知", poems[1].Dynasty)
	assert.Equal(t, []string{"无名之句"}, poems[1].Content)
	assert.Equal(t, "store", poems[1].Source)

	p, err := s.GetByID(ctx, "tang-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "将进酒", p.Title)

	p, err = s.GetByID(ctx, "tang-3")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = s.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, p)

	n, err := s.Count(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, n, "count agrees with List")
}

func TestStoreSearchEscapesWildcards(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertRow(t, s.DB, "a", "Moon Song", "佚名", "唐", `["明月松间照"]`, `["山水"]`, "tang")
	insertRow(t, s.DB, "b", "百分之百", "佚名", "唐", `["100% 清泉石上流"]`, `[]`, "tang")

	got, err := s.Search(ctx, "MOON")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	got, err = s.Search(ctx, "明月")
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = s.Search(ctx, "%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	got, err = s.Search(ctx, "_")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStoreSearchFoldsWidthAndCase(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertRow(t, s.DB, "jys", "静夜思", "李白", "唐", `["床前明月光，疑是地上霜。"]`, `["五言绝句"]`, "tang")
	insertRow(t, s.DB, "moon", "Moon Song", "", "唐", `["松间照"]`, `["Ｓａｎｓｈｕｉ"]`, "tang")

	for _, q := range []string{"明月光,疑是", "明月光，疑是", "ＭＯＯＮ", "sanshui", "佚名", "五言"} {
		got, err := s.Search(ctx, q)
		require.NoError(t, err, q)
		require.Len(t, got, 1, q)
	}

	// the in-memory sources agree on the same records
	all, err := s.List(ctx)
	require.NoError(t, err)
	mem := NewStatic("mem", all)
	for _, q := range []string{"明月光,疑是", "ＭＯＯＮ", "sanshui", "佚名", "霜。", "无"} {
		fromStore, err := s.Search(ctx, q)
		require.NoError(t, err)
		fromMem, err := mem.Search(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, ids(fromMem), ids(fromStore), q)
	}
}

func ids(poems []models.Poem) []string {
	out := []string{}
	for _, p := range poems {
		out = append(out, p.ID)
	}
	return out
}

func seedPagingRows(t *testing.T, s *Store) {
	t.Helper()
	dynasties := []string{"唐", "宋", "", "唐"}
	authors := []string{"李白", "苏轼", "", "杜甫", "李白"}
	for i := 0; i < 23; i++ {
		content := fmt.Sprintf(`["第%d句"]`, i)
		if i%7 == 6 {
			content = `["   "]`
		}
		insertRow(t, s.DB, fmt.Sprintf("p%02d", i), fmt.Sprintf("诗%d", i),
			authors[i%len(authors)], dynasties[i%len(dynasties)], content, `[]`, "tang")
	}
}

func TestStorePagingAgreesWithList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedPagingRows(t, s)

	inSQL := Paged(s)
	inMemory := listPager{s}
	_, isStore := inSQL.(*Store)
	require.True(t, isStore)

	filters := []Filter{{}, {Dynasty: "唐"}, {Dynasty: "未知"}, {Q: "李白"}, {Q: "佚名"}, {Dynasty: "宋", Q: "诗1"}, {Dynasty: "元"}}
	for _, f := range filters {
		want, err := inMemory.Count(ctx, f)
		require.NoError(t, err)
		got, err := inSQL.Count(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, want, got, "%+v", f)

		for _, page := range [][2]int{{0, 5}, {3, 4}, {10, 100}, {40, 5}, {-1, 2}, {0, 0}} {
			want, err := inMemory.Range(ctx, f, page[0], page[1])
			require.NoError(t, err)
			got, err := inSQL.Range(ctx, f, page[0], page[1])
			require.NoError(t, err)
			assert.Equal(t, ids(want), ids(got), "%+v %v", f, page)
		}
	}

	wantAuthors, err := inMemory.Authors(ctx)
	require.NoError(t, err)
	gotAuthors, err := inSQL.Authors(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantAuthors, gotAuthors)

	wantDyn, err := inMemory.Dynasties(ctx)
	require.NoError(t, err)
	gotDyn, err := inSQL.Dynasties(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantDyn, gotDyn)
	assert.Equal(t, []string{"唐", "宋", "未知"}, gotDyn)
}
