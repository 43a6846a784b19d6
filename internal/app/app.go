// Package app wires configuration, storage, sources and the search engine
// together for the binaries.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"shicihub/internal/corpus"
	"shicihub/internal/grpcsearch"
	"shicihub/internal/index"
	"shicihub/internal/search"
	"shicihub/internal/searchlog"
	"shicihub/internal/sources"
	"shicihub/pkg/database"
	"shicihub/pkg/utils"
)

type App struct {
	Config utils.AppConfig
	DB     *sql.DB
	Corpus *corpus.Aggregator
	Engine *search.Engine
	Logs   *searchlog.Repo
	Index  *index.Index // set when the index backend is selected

	remote *grpcsearch.Client
}

// New opens the store, builds the source registry and the engine. Only a
// broken configuration or an unusable database is an error; a backend that
// cannot be prepared just leaves the engine on the local path.
func New(ctx context.Context, cfg utils.AppConfig) (*App, error) {
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migrate: %w", err)
	}

	adapters, err := sources.Build(cfg, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("build sources: %w", err)
	}

	a := &App{
		Config: cfg,
		DB:     db,
		Corpus: corpus.New(adapters, corpus.Options{}),
		Logs:   searchlog.NewRepo(db),
	}

	var backend search.Backend
	switch cfg.SearchBackend {
	case utils.BackendIndex:
		a.Index = index.New(a.Corpus, nil)
		if err := a.Index.Refresh(ctx); err != nil {
			log.Printf("[index] initial build failed, searching locally until refresh: %v", err)
		}
		backend = a.Index
	case utils.BackendGRPC:
		client, err := grpcsearch.Dial(cfg.GRPCAddr)
		if err != nil {
			log.Printf("[grpc] %v, searching locally", err)
			break
		}
		a.remote = client
		backend = client
	}

	a.Engine = search.NewEngine(search.Config{
		Corpus:  a.Corpus,
		Backend: backend,
		Timeout: cfg.BackendTimeout,
		Popular: a.Logs,
	})
	log.Printf("[app] %d sources, backend=%s, db=%s", len(adapters), cfg.SearchBackend, cfg.DBPath)
	return a, nil
}

// RefreshLoop keeps the index current until ctx is done. It returns at once
// when no index is in use or refresh is disabled.
func (a *App) RefreshLoop(ctx context.Context) {
	if a.Index == nil {
		return
	}
	a.Index.Run(ctx, a.Config.IndexRefresh)
}

func (a *App) Close() error {
	var errs []error
	if a.Index != nil {
		errs = append(errs, a.Index.Close())
	}
	if a.remote != nil {
		errs = append(errs, a.remote.Close())
	}
	errs = append(errs, a.DB.Close())
	return errors.Join(errs...)
}
