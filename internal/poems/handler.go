// Package poems is the HTTP API the reading site renders from.
package poems

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"shicihub/internal/auth"
	"shicihub/internal/corpus"
	"shicihub/internal/search"
	"shicihub/pkg/models"
)

// HistoryStore returns a user's past searches, newest first.
type HistoryStore interface {
	History(ctx context.Context, userID string, limit int) ([]models.SearchLogEntry, error)
}

type Handler struct {
	Corpus   *corpus.Aggregator
	Engine   *search.Engine
	Recorder *search.Recorder // optional
	History  HistoryStore     // optional
}

func NewHandler(c *corpus.Aggregator, e *search.Engine, rec *search.Recorder, history HistoryStore) *Handler {
	return &Handler{Corpus: c, Engine: e, Recorder: rec, History: history}
}

// RegisterRoutes mounts the API on rg. The caller is expected to have
// installed auth.Identity so searches can be attributed.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	p := rg.Group("/poems")
	p.GET("", h.list)          // GET /poems
	p.GET("/random", h.random) // GET /poems/random
	p.GET("/daily", h.daily)   // GET /poems/daily
	p.GET("/:id", h.getByID)   // GET /poems/:id

	s := rg.Group("/search")
	s.GET("", h.search)
	s.GET("/suggest", h.suggest)
	s.GET("/popular", h.popular)
	s.GET("/history", auth.RequireUser(), h.history)

	rg.GET("/authors", h.authors)
	rg.GET("/stats", h.stats)
}

func (h *Handler) list(c *gin.Context) {
	q := corpus.ListQuery{
		Dynasty: c.Query("dynasty"),
		Q:       c.Query("q"),
		Limit:   parseInt(c.Query("limit"), corpus.DefaultPageSize),
		Offset:  parseInt(c.Query("offset"), 0),
	}
	items, total := h.Corpus.List(c.Request.Context(), q)

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	p := h.Corpus.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) random(c *gin.Context) {
	respondPoem(c, h.Corpus.GetRandom(c.Request.Context()))
}

func (h *Handler) daily(c *gin.Context) {
	respondPoem(c, h.Corpus.GetDaily(c.Request.Context()))
}

func respondPoem(c *gin.Context, p *models.Poem) {
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "corpus is empty"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// search never fails: no results is an empty list, backend trouble is
// handled inside the engine.
func (h *Handler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	opts := search.Options{
		Limit:   parseInt(c.Query("limit"), search.DefaultLimit),
		Offset:  parseInt(c.Query("offset"), 0),
		Dynasty: c.Query("dynasty"),
		SortBy:  search.ParseSortBy(c.Query("sort")),
	}

	items := h.Engine.Search(c.Request.Context(), query, opts)
	if query != "" {
		h.Recorder.Record(query, auth.UserID(c), len(items))
	}

	c.JSON(http.StatusOK, gin.H{
		"query": query,
		"count": len(items),
		"items": items,
	})
}

func (h *Handler) suggest(c *gin.Context) {
	items := h.Engine.Suggest(c.Request.Context(), c.Query("q"), parseInt(c.Query("limit"), search.DefaultSuggestLimit))
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) popular(c *gin.Context) {
	items := h.Engine.Popular(c.Request.Context(), parseInt(c.Query("limit"), search.DefaultPopularLimit))
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) history(c *gin.Context) {
	if h.History == nil {
		c.JSON(http.StatusOK, gin.H{"items": []models.SearchLogEntry{}})
		return
	}
	items, err := h.History.History(c.Request.Context(), auth.UserID(c), parseInt(c.Query("limit"), 20))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) authors(c *gin.Context) {
	items := h.Corpus.Authors(c.Request.Context())
	if limit := parseInt(c.Query("limit"), 0); limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) stats(c *gin.Context) {
	ctx := c.Request.Context()
	sources := h.Corpus.Stats(ctx)
	total := 0
	for _, s := range sources {
		total += s.Poems
	}
	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"sources":   sources,
		"dynasties": h.Corpus.Dynasties(ctx),
	})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
