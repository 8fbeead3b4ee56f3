package service

import (
	"sync"
	"time"

	"github.com/nulladdict/fiit-projects-OwnChGK/internal/errs"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/game"
	"go.uber.org/zap"
)

// Registry is the process-wide map of live sessions keyed by game id. It owns
// session creation and the scheduled, cancellable expiry: a session exists
// only between Start and Expire, and once absent every score query and
// connection for that id fails with ErrGameNotStarted.
type Registry struct {
	mu       sync.RWMutex
	ttl      time.Duration
	log      *zap.Logger
	entries  map[string]*registryEntry
	onRemove func(id string)
}

type registryEntry struct {
	sess   *game.Session
	expiry *time.Timer
}

// NewRegistry creates a registry whose sessions live for ttl after start.
func NewRegistry(ttl time.Duration, log *zap.Logger) *Registry {
	return &Registry{
		ttl:     ttl,
		log:     log,
		entries: make(map[string]*registryEntry),
	}
}

// OnRemove registers a callback fired after a session leaves the registry,
// used to tear down that session's connections.
func (r *Registry) OnRemove(fn func(id string)) {
	r.onRemove = fn
}

// Start builds a session from the start payload and schedules its expiry.
// Exactly one Start per id wins; the loser observes ErrAlreadyStarted.
func (r *Registry) Start(id string, cfg game.Config) (*game.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; ok {
		return nil, errs.ErrAlreadyStarted
	}
	sess, err := game.NewSession(id, cfg)
	if err != nil {
		return nil, err
	}
	r.entries[id] = &registryEntry{
		sess:   sess,
		expiry: time.AfterFunc(r.ttl, func() { r.Expire(id) }),
	}
	r.log.Info("session started",
		zap.String("game_id", id),
		zap.String("name", cfg.Name),
		zap.Duration("ttl", r.ttl))
	return sess, nil
}

// Get returns the live session for the id.
func (r *Registry) Get(id string) (*game.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, errs.ErrGameNotStarted
	}
	return e.sess, nil
}

// Expire removes a session. Idempotent; safe against the expiry timer and an
// explicit teardown racing each other, both outcomes converge to "session
// gone". Reads already holding the session may finish against the discarded
// object.
func (r *Registry) Expire(id string) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok {
		e.expiry.Stop()
		delete(r.entries, id)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	e.sess.Close()
	if r.onRemove != nil {
		r.onRemove(id)
	}
	r.log.Info("session expired", zap.String("game_id", id))
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Shutdown expires every live session.
func (r *Registry) Shutdown() {
	r.mu.RLock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	for _, id := range ids {
		r.Expire(id)
	}
}
