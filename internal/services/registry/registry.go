package registry

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/wordrush/internal/dependencies/clock"
	"github.com/mcoot/wordrush/internal/dependencies/random"
	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/letters"
	"github.com/mcoot/wordrush/internal/services/session"
	"github.com/mcoot/wordrush/internal/storage"
)

const (
	// SessionIDLength is the length of generated session ids
	SessionIDLength = 6
	// SessionIDAlphabet is the characters used in session ids (avoid confusing chars)
	SessionIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	maxIDAttempts = 100
)

// ErrNoFreeID is returned when no unused session id could be generated
var ErrNoFreeID = errors.New("could not allocate a session id")

// Config controls session defaults and eviction
type Config struct {
	Defaults      model.Options
	MaxAge        time.Duration
	SweepInterval time.Duration
}

// DefaultConfig returns the standard registry settings
func DefaultConfig() Config {
	return Config{
		Defaults:      model.DefaultOptions(),
		MaxAge:        30 * time.Minute,
		SweepInterval: 5 * time.Minute,
	}
}

// Registry owns every live session
type Registry struct {
	cfg       Config
	deps      session.Deps
	generator *letters.Generator
	random    random.Random
	clock     clock.Clock
	storage   storage.Storage
	logger    *slog.Logger

	mu       sync.RWMutex
	sessions map[model.SessionID]*session.Session
	onEvict  []func(model.SessionID)
}

// New creates a new Registry
func New(
	cfg Config,
	deps session.Deps,
	generator *letters.Generator,
	random random.Random,
	storage storage.Storage,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		cfg:       cfg,
		deps:      deps,
		generator: generator,
		random:    random,
		clock:     deps.Clock,
		storage:   storage,
		logger:    logger.With(slog.String("component", "registry")),
		sessions:  make(map[model.SessionID]*session.Session),
	}
}

// OnEvict registers a hook run after a session is removed
func (r *Registry) OnEvict(fn func(model.SessionID)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEvict = append(r.onEvict, fn)
}

// Create makes a new waiting session. Zero fields in overrides take the defaults;
// the letter count is clamped to the supported range.
func (r *Registry) Create(ctx context.Context, overrides model.Options) (*session.Session, error) {
	opts := overrides.Merge(r.cfg.Defaults)
	opts.LetterCount = min(max(opts.LetterCount, model.MinLetterCount), model.MaxLetterCount)
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, ok := r.candidateID()
		if !ok {
			continue
		}
		// Storage is checked without holding the registry lock
		archived, err := r.storage.RoundResultExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if archived {
			continue
		}

		sess := session.New(id, opts, r.generator.Generate(opts.LetterCount), r.deps)
		active, ok := r.insert(sess)
		if !ok {
			// Another Create took the id meanwhile
			continue
		}

		r.logger.Info("session created",
			slog.String("session", string(id)),
			slog.String("mode", string(opts.Mode)),
			slog.Int("letter_count", opts.LetterCount),
			slog.Int("active_sessions", active),
		)
		return sess, nil
	}
	return nil, ErrNoFreeID
}

// candidateID draws an id that no live session uses
func (r *Registry) candidateID() (model.SessionID, bool) {
	id := model.SessionID(r.random.String(SessionIDLength, SessionIDAlphabet))
	if len(id) != SessionIDLength {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, taken := r.sessions[id]
	return id, !taken
}

// insert adds sess unless its id is already live and returns the new session count
func (r *Registry) insert(sess *session.Session) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.sessions[sess.ID()]; taken {
		return 0, false
	}
	r.sessions[sess.ID()] = sess
	return len(r.sessions), true
}

// Get returns a live session
func (r *Registry) Get(id model.SessionID) (*session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return sess, nil
}

// Remove evicts a session. Removing an unknown id is a no-op.
func (r *Registry) Remove(id model.SessionID) {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	hooks := append([]func(model.SessionID){}, r.onEvict...)
	r.mu.Unlock()

	if !ok {
		return
	}

	sess.Close()
	for _, fn := range hooks {
		fn(id)
	}
}

// Count returns the number of live sessions
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts ended sessions and abandoned waiting rooms whose last activity
// is older than MaxAge. It returns the number evicted.
func (r *Registry) Sweep(ctx context.Context) int {
	cutoff := r.clock.Now().Add(-r.cfg.MaxAge)

	r.mu.RLock()
	var stale []model.SessionID
	for id, sess := range r.sessions {
		if !sess.ActivityTime().Before(cutoff) {
			continue
		}
		switch sess.Status() {
		case model.StatusEnded:
			stale = append(stale, id)
		case model.StatusWaiting:
			if sess.ConnectedCount() == 0 {
				stale = append(stale, id)
			}
		}
	}
	r.mu.RUnlock()

	for _, id := range stale {
		r.Remove(id)
	}

	if len(stale) > 0 {
		r.logger.Info("sessions evicted",
			slog.Int("evicted", len(stale)),
			slog.Int("active_sessions", r.Count()),
		)
	}
	return len(stale)
}

// Run sweeps every SweepInterval until ctx is done
func (r *Registry) Run(ctx context.Context) error {
	ticker := r.clock.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			r.Sweep(ctx)
		}
	}
}

// Shutdown evicts every session, cancelling timers and closing their streams
func (r *Registry) Shutdown() {
	r.mu.RLock()
	ids := make([]model.SessionID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	for _, id := range ids {
		r.Remove(id)
	}
}
