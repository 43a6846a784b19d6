package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"shicihub/internal/activity"
	"shicihub/internal/app"
	"shicihub/internal/auth"
	"shicihub/internal/poems"
	"shicihub/internal/search"
	"shicihub/pkg/utils"
)

func main() {
	cfg, err := utils.LoadAppConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer a.Close()

	go a.RefreshLoop(ctx)

	hub := activity.NewHub(0)
	recorder := search.NewRecorder(a.Logs, hub.Publish, nil)
	defer recorder.Close()

	router := gin.Default()

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": cfg.SearchBackend})
	})

	router.GET("/ready", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		indexed := -1
		if a.Index != nil {
			indexed = a.Index.Len()
		}
		if err := a.DB.PingContext(pingCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db":         "unreachable",
				"indexed":    indexed,
				"ws_clients": hub.Subscribers(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"indexed":    indexed,
			"ws_clients": hub.Subscribers(),
		})
	})

	router.GET("/ws/activity", activity.WSHandler(hub))
	router.GET("/activity/recent", activity.RecentHandler(hub))

	tokens := auth.NewTokenService(utils.LoadAuthConfig())
	api := router.Group("/api")
	api.Use(auth.Identity(tokens))
	poems.NewHandler(a.Corpus, a.Engine, recorder, a.Logs).RegisterRoutes(api)

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP API server listening on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("shutdown signal received")
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}
