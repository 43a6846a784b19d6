package poems

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shicihub/internal/auth"
	"shicihub/internal/corpus"
	"shicihub/internal/search"
	"shicihub/internal/sources"
	"shicihub/pkg/models"
)

var tokens = auth.TokenService{Secret: []byte("test"), Issuer: "shicihub", Duration: time.Hour}

type memLog struct {
	mu      sync.Mutex
	entries []models.SearchLogEntry
}

func (m *memLog) Log(_ context.Context, e models.SearchLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memLog) History(_ context.Context, userID string, _ int) ([]models.SearchLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.SearchLogEntry{}
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].UserID == userID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

type testAPI struct {
	router   *gin.Engine
	log      *memLog
	recorder *search.Recorder
}

func newAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	quiet := log.New(io.Discard, "", 0)

	c := corpus.New([]sources.Adapter{
		sources.NewBuiltin(),
		sources.NewChuci("../sources/testdata/楚辞/chuci.json"),
	}, corpus.Options{Logger: quiet})
	e := search.NewEngine(search.Config{Corpus: c, Logger: quiet})
	ml := &memLog{}
	rec := search.NewRecorder(ml, nil, quiet)
	t.Cleanup(rec.Close)

	r := gin.New()
	r.Use(auth.Identity(tokens))
	NewHandler(c, e, rec, ml).RegisterRoutes(&r.RouterGroup)
	return &testAPI{router: r, log: ml, recorder: rec}
}

func (a *testAPI) get(t *testing.T, path, token string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

type searchResponse struct {
	Query string                `json:"query"`
	Count int                   `json:"count"`
	Items []models.RankedResult `json:"items"`
}

func TestSearchEndpoint(t *testing.T) {
	api := newAPI(t)

	var resp searchResponse
	code := api.get(t, "/search?q=%E7%A6%BB%E9%AA%9A", "", &resp) // 离骚
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, resp.Items)
	assert.Equal(t, "离骚", resp.Items[0].Title)
	assert.Equal(t, models.MatchTitle, resp.Items[0].MatchType)
	assert.Equal(t, []string{"帝高阳之苗裔兮，朕皇考曰伯庸。", "摄提贞于孟陬兮，惟庚寅吾以降。"}, resp.Items[0].Content)

	code = api.get(t, "/search?q=+", "", &resp)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.Count)
}

func TestSearchIsLoggedWithUser(t *testing.T) {
	api := newAPI(t)
	token, _, err := tokens.Sign("u1", "")
	require.NoError(t, err)

	api.get(t, "/search?q=%E6%98%8E%E6%9C%88&dynasty=%E5%94%90", token, nil) // 明月, 唐
	api.get(t, "/search?q=%E6%98%A5", "", nil)                                // 春
	api.get(t, "/search?q=", "", nil)
	api.recorder.Close()

	require.Len(t, api.log.entries, 2)
	assert.Equal(t, "明月", api.log.entries[0].Query)
	assert.Equal(t, "u1", api.log.entries[0].UserID)
	assert.Equal(t, 1, api.log.entries[0].ResultsCount)
	assert.Equal(t, "", api.log.entries[1].UserID)

	var hist struct {
		Items []models.SearchLogEntry `json:"items"`
	}
	assert.Equal(t, http.StatusUnauthorized, api.get(t, "/search/history", "", nil))
	require.Equal(t, http.StatusOK, api.get(t, "/search/history", token, &hist))
	require.Len(t, hist.Items, 1)
	assert.Equal(t, "明月", hist.Items[0].Query)
}

func TestPoemEndpoints(t *testing.T) {
	api := newAPI(t)

	var p models.Poem
	require.Equal(t, http.StatusOK, api.get(t, "/poems/chuci-3", "", &p))
	assert.Equal(t, "西汉", p.Dynasty)
	assert.Equal(t, http.StatusNotFound, api.get(t, "/poems/nope", "", nil))

	require.Equal(t, http.StatusOK, api.get(t, "/poems/daily", "", &p))
	assert.True(t, p.Valid())
	require.Equal(t, http.StatusOK, api.get(t, "/poems/random", "", &p))
	assert.True(t, p.Valid())

	var page struct {
		Total int           `json:"total"`
		Limit int           `json:"limit"`
		Items []models.Poem `json:"items"`
	}
	require.Equal(t, http.StatusOK, api.get(t, "/poems?dynasty=%E5%AE%8B&limit=1", "", &page)) // 宋
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Limit)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "宋", page.Items[0].Dynasty)
}

func TestSuggestPopularAuthorsStats(t *testing.T) {
	api := newAPI(t)

	var sugg struct {
		Items []models.Suggestion `json:"items"`
	}
	require.Equal(t, http.StatusOK, api.get(t, "/search/suggest?q=%E6%9D%8E", "", &sugg)) // 李
	require.NotEmpty(t, sugg.Items)
	assert.Contains(t, sugg.Items, models.Suggestion{Type: models.SuggestAuthor, Text: "李白", Count: 2})

	var pop struct {
		Items []models.PopularTerm `json:"items"`
	}
	require.Equal(t, http.StatusOK, api.get(t, "/search/popular?limit=3", "", &pop))
	assert.Len(t, pop.Items, 3)

	var authors struct {
		Items []models.AuthorCount `json:"items"`
	}
	require.Equal(t, http.StatusOK, api.get(t, "/authors?limit=1", "", &authors))
	require.Len(t, authors.Items, 1)
	assert.Equal(t, "李白", authors.Items[0].Author)

	var stats struct {
		Total     int                 `json:"total"`
		Sources   []models.SourceStat `json:"sources"`
		Dynasties []string            `json:"dynasties"`
	}
	require.Equal(t, http.StatusOK, api.get(t, "/stats", "", &stats))
	assert.Equal(t, 12, stats.Total)
	assert.Equal(t, []models.SourceStat{{Source: "builtin", Poems: 8}, {Source: "chuci", Poems: 4}}, stats.Sources)
	assert.Equal(t, []string{"唐", "宋", "战国", "西汉"}, stats.Dynasties)
}
