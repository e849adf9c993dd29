package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/ports"
)

const DefaultGatePollInterval = time.Minute

var unlockAtPattern = regexp.MustCompile(`(?i)^(\d{4})-(\d{2})-(\d{2})T(\d{1,2}):(\d{2})(?::(\d{2}))?(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?$`)

// ParseUnlockAt reads an ISO-like timestamp as wall-clock time in loc. A zone
// suffix is accepted but ignored: the unlock moment is announced in local time.
func ParseUnlockAt(value string, loc *time.Location) (time.Time, error) {
	m := unlockAtPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid unlock time %q", value)
	}
	n := make([]int, 6)
	for i := range n {
		if m[i+1] == "" {
			continue
		}
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid unlock time %q: %w", value, err)
		}
		n[i] = v
	}
	wall := time.Date(n[0], time.Month(n[1]), n[2], n[3], n[4], n[5], 0, time.UTC)
	if wall.Year() != n[0] || int(wall.Month()) != n[1] || wall.Day() != n[2] ||
		wall.Hour() != n[3] || wall.Minute() != n[4] || wall.Second() != n[5] {
		return time.Time{}, fmt.Errorf("invalid unlock time %q: out of range", value)
	}

	t := time.Date(n[0], time.Month(n[1]), n[2], n[3], n[4], n[5], 0, loc)
	if t.Hour() != n[3] || t.Minute() != n[4] {
		// skipped by a daylight saving jump: read it with the offset in effect
		// before the jump, which lands the same distance past it
		_, offset := t.Zone()
		t = wall.Add(-time.Duration(offset) * time.Second).In(loc)
	}
	return t, nil
}

type GateStatus struct {
	Configured bool      `json:"configured"`
	Unlocked   bool      `json:"unlocked"`
	UnlockAt   time.Time `json:"unlock_at,omitzero"`
	Formatted  string    `json:"formatted,omitempty"`
	Relative   string    `json:"relative,omitempty"`
}

// UnlockGate hides results until a configured local time.
type UnlockGate struct {
	raw      string
	unlockAt time.Time
	valid    bool
	now      func() time.Time
}

func NewUnlockGate(raw string, loc *time.Location) *UnlockGate {
	if loc == nil {
		loc = time.Local
	}
	g := &UnlockGate{raw: strings.TrimSpace(raw), now: time.Now}
	if g.raw == "" {
		return g
	}
	t, err := ParseUnlockAt(g.raw, loc)
	if err != nil {
		slog.Warn("results unlock time ignored", "error", err)
		return g
	}
	g.unlockAt = t
	g.valid = true
	return g
}

// WithClock replaces the time source.
func (g *UnlockGate) WithClock(now func() time.Time) *UnlockGate {
	g.now = now
	return g
}

// Status evaluates the gate against the current time. A missing or unparseable
// unlock time keeps the gate locked.
func (g *UnlockGate) Status() GateStatus {
	if g.raw == "" {
		return GateStatus{}
	}
	if !g.valid {
		return GateStatus{Configured: true, Formatted: g.raw}
	}
	now := g.now()
	return GateStatus{
		Configured: true,
		Unlocked:   !now.Before(g.unlockAt),
		UnlockAt:   g.unlockAt,
		Formatted:  g.unlockAt.Format("Jan 2, 2006, 3:04 PM"),
		Relative:   humanize.RelTime(g.unlockAt, now, "ago", "from now"),
	}
}

func (g *UnlockGate) Unlocked() bool {
	return g.Status().Unlocked
}

// Watch reports the gate status now and on every tick until ctx is done.
func (g *UnlockGate) Watch(ctx context.Context, interval time.Duration, fn func(GateStatus)) {
	if interval <= 0 {
		interval = DefaultGatePollInterval
	}
	fn(g.Status())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(g.Status())
		}
	}
}

// WaitUnlocked blocks until the gate opens or ctx is done.
func (g *UnlockGate) WaitUnlocked(ctx context.Context, interval time.Duration) error {
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	opened := false
	g.Watch(watchCtx, interval, func(st GateStatus) {
		if st.Unlocked {
			opened = true
			cancel()
		}
	})
	if opened {
		return nil
	}
	return ctx.Err()
}

type resultsService struct {
	gate *UnlockGate
	api  ports.AdminAPI
}

func NewResultsService(gate *UnlockGate, api ports.AdminAPI) ports.ResultsService {
	return &resultsService{
		gate: gate,
		api:  api,
	}
}

// Results fetches the tally. The password is checked by the API only; while
// the gate is locked no request is made at all.
func (s *resultsService) Results(ctx context.Context, password string) (*domain.Results, error) {
	if !s.gate.Unlocked() {
		return nil, domain.ErrResultsLocked
	}
	password = strings.TrimSpace(password)
	if password == "" {
		return nil, domain.NewError(domain.KindValidation, "Please enter the results password.")
	}
	return s.api.Results(ctx, password)
}
