package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmoon/examview/internal/exam"
	"github.com/google/uuid"
)

// Registry tracks live sessions by ID and expires idle ones. New sessions
// are seeded with the documents preloaded from the data directory, so each
// tab starts from the same library but diverges independently.
type Registry struct {
	ttl  time.Duration
	seed []*exam.Document
	log  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewRegistry(ttl time.Duration, seed []*exam.Document, log *slog.Logger) *Registry {
	return &Registry{
		ttl:      ttl,
		seed:     seed,
		log:      log,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Create makes and registers a new seeded session.
func (r *Registry) Create() *Session {
	now := time.Now()
	s := newSession(uuid.NewString(), now)
	for _, doc := range r.seed {
		s.Add(doc)
	}
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
	return s
}

// Get returns the session for id and refreshes its idle timer.
// Returns nil for unknown or expired sessions.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	s := r.sessions[id]
	r.mu.Unlock()
	if s != nil {
		s.touch(time.Now())
	}
	return s
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Start launches the expiry janitor. Stop (or ctx cancellation) shuts
// it down.
func (r *Registry) Start(ctx context.Context) {
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stop:
				return
			case now := <-ticker.C:
				if n := r.sweep(now); n > 0 && r.log != nil {
					r.log.Info("expired sessions", "count", n)
				}
			}
		}
	}()
}

// Stop terminates the janitor and waits for it to exit.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}

func (r *Registry) sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if now.Sub(s.seen()) > r.ttl {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
