package http

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vncsmyrnk/ballot/internal/core/services"
)

// DefaultBallotIdleTTL bounds how long an untouched ballot is kept when
// sessions themselves never expire.
const DefaultBallotIdleTTL = 24 * time.Hour

type registryEntry struct {
	controller *services.SubmissionController
	lastUsed   time.Time
}

// BallotRegistry owns one submission controller per voting session. Entries
// not used for idleTTL are evicted, except while a submission is in flight.
type BallotRegistry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
	idleTTL time.Duration
	now     func() time.Time
}

func NewBallotRegistry(idleTTL time.Duration) *BallotRegistry {
	if idleTTL <= 0 {
		idleTTL = DefaultBallotIdleTTL
	}
	return &BallotRegistry{
		entries: make(map[string]*registryEntry),
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

func (r *BallotRegistry) Get(sessionID string) (*services.SubmissionController, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[sessionID]
	if !ok {
		return nil, false
	}
	e.lastUsed = r.now()
	return e.controller, true
}

// GetOrCreate returns the session's controller, building it with create when
// there is none. create runs without the lock held; if two requests race, the
// first stored controller wins.
func (r *BallotRegistry) GetOrCreate(ctx context.Context, sessionID string, create func(ctx context.Context) (*services.SubmissionController, error)) (*services.SubmissionController, error) {
	if c, ok := r.Get(sessionID); ok {
		return c, nil
	}

	c, err := create(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entries[sessionID]; ok {
		existing.lastUsed = r.now()
		return existing.controller, nil
	}
	r.entries[sessionID] = &registryEntry{controller: c, lastUsed: r.now()}
	return c, nil
}

func (r *BallotRegistry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sessionID)
}

func (r *BallotRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Evict removes the controllers idle for longer than the registry TTL and
// returns how many were removed.
func (r *BallotRegistry) Evict() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idleTTL)
	evicted := 0
	for id, e := range r.entries {
		if e.lastUsed.After(cutoff) || e.controller.State() == services.StateSubmitting {
			continue
		}
		delete(r.entries, id)
		evicted++
	}
	return evicted
}

// Run evicts idle controllers on every tick until ctx is done.
func (r *BallotRegistry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Evict(); n > 0 {
				slog.Info("evicted idle ballots", "count", n, "remaining", r.Len())
			}
		}
	}
}
