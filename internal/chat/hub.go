package chat

import (
	"errors"
	"sync"
)

var (
	// ErrNoSession is returned by Hub.Send while no peer is connected.
	ErrNoSession = errors.New("no active connection")
	// ErrSessionActive is returned by Hub.Attach while another session runs.
	ErrSessionActive = errors.New("a session is already active")
)

// Hub holds the single active session of an endpoint, so the operator's
// send loop can outlive individual connections.
type Hub struct {
	current *Session
	mu      sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{}
}

// Attach makes s the active session. A session that has already ended is
// replaced.
func (h *Hub) Attach(s *Session) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current != nil {
		select {
		case <-h.current.Done():
		default:
			return ErrSessionActive
		}
	}
	h.current = s
	return nil
}

// Detach clears the active session if it is s.
func (h *Hub) Detach(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == s {
		h.current = nil
	}
}

// Current returns the active session, or nil.
func (h *Hub) Current() *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Send writes text to the active session.
func (h *Hub) Send(text string) error {
	s := h.Current()
	if s == nil {
		return ErrNoSession
	}
	return s.Send(text)
}

// Close ends the active session, if any.
func (h *Hub) Close() {
	if s := h.Current(); s != nil {
		s.Close()
	}
}
