// internal/domain/order/registry.go
package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Store mirrors session states so a session survives eviction and restarts
type Store interface {
	Load(ctx context.Context, sessionID string) (*State, error)
	Save(ctx context.Context, state State) error
	Delete(ctx context.Context, sessionID string) error
}

type registryEntry struct {
	session     *Session
	lastSeen    time.Time
	unsubscribe func()
}

// Registry maps session ids to live sessions
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*registryEntry
	store    Store
	logger   logrus.FieldLogger
	opts     []Option
	now      func() time.Time
	saveWait time.Duration
}

// NewRegistry creates a registry. store may be nil, in which case sessions
// live only in memory. opts are applied to every session the registry builds.
func NewRegistry(store Store, logger logrus.FieldLogger, opts ...Option) *Registry {
	return &Registry{
		sessions: make(map[string]*registryEntry),
		store:    store,
		logger:   logger,
		opts:     append([]Option{WithLogger(logger)}, opts...),
		now:      time.Now,
		saveWait: 3 * time.Second,
	}
}

// Get returns the live session for id, restoring it from the store or
// creating an empty one as needed. The store is read without holding the
// registry lock.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id required")
	}

	if session, ok := r.lookup(id); ok {
		return session, nil
	}

	session, err := r.build(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another request may have restored the same session meanwhile
	if entry, ok := r.sessions[id]; ok {
		entry.lastSeen = r.now()
		return entry.session, nil
	}

	entry := &registryEntry{session: session, lastSeen: r.now()}
	if r.store != nil {
		entry.unsubscribe = session.Subscribe(r.mirror)
	}
	r.sessions[id] = entry

	return session, nil
}

func (r *Registry) lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = r.now()
	return entry.session, true
}

func (r *Registry) build(ctx context.Context, id string) (*Session, error) {
	if r.store == nil {
		return NewSession(id, r.opts...), nil
	}

	state, err := r.store.Load(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return NewSession(id, r.opts...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"session_id": id,
		"version":    state.Version,
	}).Debug("Session restored from store")

	return RestoreSession(*state, r.opts...), nil
}

// mirror persists each new state. Failures are logged; the in-memory session
// stays authoritative.
func (r *Registry) mirror(state State) {
	ctx, cancel := context.WithTimeout(context.Background(), r.saveWait)
	defer cancel()

	if err := r.store.Save(ctx, state); err != nil {
		r.logger.WithField("session_id", state.SessionID).WithError(err).Warn("Failed to mirror session state")
	}
}

// Evict drops sessions idle for longer than idle from memory and returns how
// many were dropped. Mirrored state stays in the store. Sessions with location
// requests in flight are kept until those resolve.
func (r *Registry) Evict(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	evicted := 0
	for id, entry := range r.sessions {
		if entry.lastSeen.Before(cutoff) && entry.session.PendingLookups() == 0 {
			if entry.unsubscribe != nil {
				entry.unsubscribe()
			}
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Run evicts idle sessions every interval until ctx is done
func (r *Registry) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Evict(idle); n > 0 {
				r.logger.WithField("evicted", n).Debug("Idle sessions evicted")
			}
		}
	}
}
