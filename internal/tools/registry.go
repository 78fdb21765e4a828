package tools

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/piyushranjan2301/ITC27/internal/assessment"
)

// ErrSessionNotFound is returned for an unknown or closed session id.
var ErrSessionNotFound = errors.New("session not found")

// Registry holds the open assessment sessions. Every call that touches a
// session runs under the registry lock, so a session is never used
// concurrently.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*assessment.Session
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*assessment.Session)}
}

// Open registers a session and returns its new id.
func (r *Registry) Open(s *assessment.Session) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return id
}

// With runs fn on the session with the given id while holding the lock.
func (r *Registry) With(id string, fn func(*assessment.Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	return fn(s)
}

// Close discards a session. It reports whether the session existed.
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// IDs returns the open session ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len is the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
