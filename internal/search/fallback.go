package search

import (
	"context"
	"errors"
	"fmt"

	"shicihub/pkg/models"
)

type path int

const (
	pathNone path = iota
	pathPreferred
	pathFallback
)

func (p path) String() string {
	switch p {
	case pathPreferred:
		return "preferred"
	case pathFallback:
		return "fallback"
	}
	return "none"
}

// candidates is the only place that chooses between the structured backend
// and the local scan. The backend gets one attempt under the engine
// timeout; any error, including a timeout or a panic inside the backend,
// switches to the local corpus. Nothing from the backend failure reaches
// the caller.
func (e *Engine) candidates(ctx context.Context, q Query) ([]models.Poem, path) {
	poems, err := e.preferred(ctx, q)
	if err == nil {
		return poems, pathPreferred
	}
	if !errors.Is(err, ErrNoBackend) {
		e.logger.Printf("[search] backend failed for %q, using local search: %v", q.Text, err)
	}
	return e.corpus.Search(ctx, q.Text), pathFallback
}

type backendResult struct {
	poems []models.Poem
	err   error
}

// preferred runs the backend call on its own goroutine so a backend that
// ignores its context is still cut off at the timeout.
func (e *Engine) preferred(ctx context.Context, q Query) ([]models.Poem, error) {
	if e.backend == nil {
		return nil, ErrNoBackend
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan backendResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- backendResult{err: fmt.Errorf("backend panic: %v", r)}
			}
		}()
		poems, err := e.backend.SearchPoems(ctx, q)
		done <- backendResult{poems: poems, err: err}
	}()

	select {
	case res := <-done:
		return res.poems, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("backend: %w", ctx.Err())
	}
}
