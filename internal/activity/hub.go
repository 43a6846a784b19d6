// Package activity streams logged searches to websocket subscribers.
package activity

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"shicihub/pkg/models"
)

const defaultRecentSize = 50

// Event is what subscribers see of one search. The user id is never sent.
type Event struct {
	Type         string    `json:"type"`
	Query        string    `json:"query"`
	ResultsCount int       `json:"results_count"`
	At           time.Time `json:"at"`
}

type Hub struct {
	mu         sync.Mutex
	conns      map[*websocket.Conn]struct{}
	recent     []Event
	recentSize int
}

func NewHub(recentSize int) *Hub {
	if recentSize <= 0 {
		recentSize = defaultRecentSize
	}
	return &Hub{
		conns:      make(map[*websocket.Conn]struct{}),
		recentSize: recentSize,
	}
}

// Publish turns a search-log entry into an event; it has the signature the
// search recorder expects for its live feed.
func (h *Hub) Publish(e models.SearchLogEntry) {
	h.Broadcast(Event{
		Type:         "search",
		Query:        e.Query,
		ResultsCount: e.ResultsCount,
		At:           e.CreatedAt,
	})
}

func (h *Hub) Broadcast(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.recent = append(h.recent, ev)
	if len(h.recent) > h.recentSize {
		h.recent = h.recent[len(h.recent)-h.recentSize:]
	}

	for ws := range h.conns {
		_ = ws.SetWriteDeadline(time.Now().Add(time.Second))
		if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
			_ = ws.Close()
			delete(h.conns, ws)
		}
	}
}

// Join replays the recent events to ws and registers it. Both happen under
// the hub lock so a concurrent Broadcast cannot interleave writes.
func (h *Hub) Join(ws *websocket.Conn) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ev := range h.recent {
		if err := ws.WriteJSON(ev); err != nil {
			return err
		}
	}
	h.conns[ws] = struct{}{}
	return nil
}

func (h *Hub) Leave(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

func (h *Hub) Recent() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Event{}, h.recent...)
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
