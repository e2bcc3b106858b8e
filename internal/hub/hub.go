// Package hub tracks the sessions connected to a shared server. Each session
// runs its own game; the hub only sees their scores, publishes a live
// leaderboard and tells everyone when the server is going away.
package hub

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// BoardSize is how many players the live leaderboard shows.
const BoardSize = 5

// EventType identifies an event sent to a session.
type EventType int

const (
	EventServerShutdown EventType = iota
)

// Event is sent from the hub to a session.
type Event struct {
	Type EventType
}

// Session is one connected player.
type Session struct {
	ID       uuid.UUID
	Username string
	Events   chan Event

	joined time.Time
	seq    int
	best   int
}

// Standing is a leaderboard row.
type Standing struct {
	Username string
	Score    int
}

// Board is an immutable leaderboard snapshot.
type Board struct {
	Players int
	Top     []Standing
}

// Hub is safe for concurrent use by every session goroutine.
type Hub struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	nextSeq  int
	board    atomic.Pointer[Board]
	logger   *log.Logger
}

// New creates an empty hub. A nil logger uses the default one.
func New(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	h := &Hub{
		sessions: make(map[uuid.UUID]*Session),
		logger:   logger,
	}
	h.board.Store(&Board{})
	return h
}

// Register adds a session and returns its handle.
func (h *Hub) Register(username string) *Session {
	s := &Session{
		ID:       uuid.New(),
		Username: username,
		Events:   make(chan Event, 16),
		joined:   time.Now(),
	}

	h.mu.Lock()
	s.seq = h.nextSeq
	h.nextSeq++
	h.sessions[s.ID] = s
	h.publishLocked()
	n := len(h.sessions)
	h.mu.Unlock()

	h.logger.Info("session joined", "id", s.ID, "user", username, "players", n)
	return s
}

// Unregister removes a session. Unknown ids are ignored.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	s, ok := h.sessions[id]
	if ok {
		delete(h.sessions, id)
		h.publishLocked()
	}
	n := len(h.sessions)
	h.mu.Unlock()

	if ok {
		h.logger.Info("session left", "id", id, "user", s.Username, "best", s.best,
			"duration", time.Since(s.joined).Round(time.Second), "players", n)
	}
}

// ReportScore records a session's current score. Only improvements change
// the leaderboard.
func (h *Hub) ReportScore(id uuid.UUID, score int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	if !ok || score <= s.best {
		return
	}
	s.best = score
	h.publishLocked()
}

// Board returns the latest leaderboard snapshot. It never blocks on writers.
func (h *Hub) Board() *Board {
	return h.board.Load()
}

// Count returns the number of connected sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// publishLocked rebuilds the snapshot. Callers hold h.mu.
func (h *Hub) publishLocked() {
	all := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		if s.best > 0 {
			all = append(all, s)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].best != all[j].best {
			return all[i].best > all[j].best
		}
		return all[i].seq < all[j].seq
	})
	if len(all) > BoardSize {
		all = all[:BoardSize]
	}

	b := &Board{Players: len(h.sessions), Top: make([]Standing, len(all))}
	for i, s := range all {
		b.Top[i] = Standing{Username: s.Username, Score: s.best}
	}
	h.board.Store(b)
}

// Shutdown notifies every session that the server is stopping and waits
// until they have all unregistered or the timeout passes.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.mu.RLock()
	for _, s := range h.sessions {
		select {
		case s.Events <- Event{Type: EventServerShutdown}:
		default:
		}
	}
	h.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if h.Count() == 0 {
			return
		}
		select {
		case <-deadline:
			h.logger.Warn("shutdown timed out", "remaining", h.Count())
			return
		case <-ticker.C:
		}
	}
}
