package auth

import (
	"sync"

	"github.com/prabhata303-del/Dd/internal/models"
)

// sessionHub fans session-state changes out to registered handlers. A nil
// session means signed out. Handlers run outside the registry lock, so a
// slow handler cannot stall registration or other subscribers' delivery
// order guarantees beyond its own call.
type sessionHub struct {
	mu       sync.RWMutex
	seq      int
	handlers map[int]func(*models.Session)
}

func newSessionHub() *sessionHub {
	return &sessionHub{handlers: make(map[int]func(*models.Session))}
}

// subscribe registers a handler and returns its unsubscribe func. The
// unsubscribe func is idempotent.
func (h *sessionHub) subscribe(handler func(*models.Session)) func() {
	h.mu.Lock()
	h.seq++
	id := h.seq
	h.handlers[id] = handler
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.handlers, id)
		h.mu.Unlock()
	}
}

func (h *sessionHub) publish(s *models.Session) {
	h.mu.RLock()
	snapshot := make([]func(*models.Session), 0, len(h.handlers))
	for _, fn := range h.handlers {
		snapshot = append(snapshot, fn)
	}
	h.mu.RUnlock()

	for _, fn := range snapshot {
		fn(s)
	}
}
