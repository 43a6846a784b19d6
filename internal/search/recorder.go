package search

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"shicihub/pkg/models"
)

const recorderBuffer = 256

// LogWriter persists one search-log entry.
type LogWriter interface {
	Log(ctx context.Context, e models.SearchLogEntry) error
}

// Recorder writes search-log entries off the request path. Record never
// blocks and never reports failure; a full buffer drops the entry.
type Recorder struct {
	writer  LogWriter
	publish func(models.SearchLogEntry) // optional live feed, called after a successful write
	logger  *log.Logger
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	queue  chan models.SearchLogEntry
	done   chan struct{}
}

func NewRecorder(w LogWriter, publish func(models.SearchLogEntry), logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	r := &Recorder{
		writer:  w,
		publish: publish,
		logger:  logger,
		now:     time.Now,
		queue:   make(chan models.SearchLogEntry, recorderBuffer),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Record queues a search for logging. Blank queries are ignored.
func (r *Recorder) Record(query, userID string, resultsCount int) {
	query = strings.TrimSpace(query)
	if r == nil || query == "" {
		return
	}
	e := models.SearchLogEntry{
		ID:           uuid.NewString(),
		Query:        query,
		UserID:       userID,
		ResultsCount: resultsCount,
		CreatedAt:    r.now().UTC(),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- e:
	default:
		r.logger.Printf("[search] log buffer full, dropping %q", query)
	}
}

// Close stops accepting entries and waits for queued ones to be written.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for e := range r.queue {
		r.write(e)
	}
}

func (r *Recorder) write(e models.SearchLogEntry) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Printf("[search] log write panic: %v", rec)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if r.writer != nil {
		if err := r.writer.Log(ctx, e); err != nil {
			r.logger.Printf("[search] log write failed: %v", err)
			return
		}
	}
	if r.publish != nil {
		r.publish(e)
	}
}
