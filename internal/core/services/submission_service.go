package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/ports"
)

type SubmissionState string

const (
	StateIdle                 SubmissionState = "idle"
	StateAwaitingConfirmation SubmissionState = "awaiting_confirmation"
	StateSubmitting           SubmissionState = "submitting"
	StateSucceeded            SubmissionState = "succeeded"
	StateFailed               SubmissionState = "failed"
)

const DefaultRedirectDelay = 2 * time.Second

// SubmissionController drives one ballot from the submit action to the cast
// vote. Only one submission can be in flight: the Submitting state rejects
// every other transition until the API call returns. The mutex guards the
// state only and is never held across the network call.
type SubmissionController struct {
	api           ports.VoterAPI
	store         ports.SessionStore
	ballot        *Ballot
	redirectDelay time.Duration

	mu      sync.Mutex
	state   SubmissionState
	lastErr error
	result  *domain.CastVoteResult
}

func NewSubmissionController(api ports.VoterAPI, store ports.SessionStore, ballot *Ballot, redirectDelay time.Duration) *SubmissionController {
	if redirectDelay <= 0 {
		redirectDelay = DefaultRedirectDelay
	}
	return &SubmissionController{
		api:           api,
		store:         store,
		ballot:        ballot,
		redirectDelay: redirectDelay,
		state:         StateIdle,
	}
}

func (c *SubmissionController) Ballot() *Ballot {
	return c.ballot
}

func (c *SubmissionController) State() SubmissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *SubmissionController) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *SubmissionController) Result() *domain.CastVoteResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// RedirectDelay is how long the UI may show a session-ending error before it
// must return to login.
func (c *SubmissionController) RedirectDelay() time.Duration {
	return c.redirectDelay
}

// RequestSubmit moves Idle to AwaitingConfirmation. An incomplete ballot is
// refused unless override is set.
func (c *SubmissionController) RequestSubmit(ctx context.Context, override bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSubmitting {
		return domain.ErrSubmissionInProgress
	}

	cred, err := c.store.Get(ctx)
	if err != nil {
		return err
	}
	if cred == nil {
		return domain.ErrNoSession
	}

	if c.state != StateIdle && c.state != StateAwaitingConfirmation {
		return domain.ErrInvalidTransition
	}

	if missing := c.ballot.Missing(c.ballot.Posts()); len(missing) > 0 && !override {
		return &domain.Error{
			Kind:    domain.KindIncompleteBallot,
			Message: fmt.Sprintf("You haven't selected a candidate for %d of %d posts.", len(missing), len(c.ballot.Posts())),
		}
	}

	c.state = StateAwaitingConfirmation
	return nil
}

// Cancel backs out of the confirmation step.
func (c *SubmissionController) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateAwaitingConfirmation:
		c.state = StateIdle
		return nil
	case StateSubmitting:
		return domain.ErrSubmissionInProgress
	default:
		return domain.ErrInvalidTransition
	}
}

// Confirm casts the ballot. On success the credential is destroyed so the same
// ballot can never be cast twice. ALREADY_VOTED and UNAUTHORIZED destroy it as
// well and leave the controller Failed; any other failure returns to Idle with
// the credential and the selections intact. Cancelling ctx after Confirm has
// begun does not abort the submission.
func (c *SubmissionController) Confirm(ctx context.Context) (*domain.CastVoteResult, error) {
	c.mu.Lock()
	switch c.state {
	case StateAwaitingConfirmation:
		c.state = StateSubmitting
	case StateSubmitting:
		c.mu.Unlock()
		return nil, domain.ErrSubmissionInProgress
	default:
		c.mu.Unlock()
		return nil, domain.ErrInvalidTransition
	}
	c.mu.Unlock()

	// Once Submitting, the cast runs to completion even if the caller goes
	// away; the API client timeout is its only bound.
	result, err := c.submit(context.WithoutCancel(ctx))

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.lastErr = err
		if domain.ForcesReauth(err) || domain.KindOf(err) == domain.KindNoSession {
			c.state = StateFailed
		} else {
			c.state = StateIdle
		}
		return nil, err
	}

	c.lastErr = nil
	c.result = result
	c.state = StateSucceeded
	return result, nil
}

func (c *SubmissionController) submit(ctx context.Context) (*domain.CastVoteResult, error) {
	cred, err := c.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, domain.ErrNoSession
	}

	votes, err := c.ballot.WireVotes()
	if err != nil {
		return nil, err
	}
	if len(votes) == 0 {
		return nil, domain.NewError(domain.KindValidation, "Select at least one candidate before submitting.")
	}

	result, err := c.api.CastVote(ctx, cred.Token, votes)
	if err != nil {
		if domain.ForcesReauth(err) {
			if clearErr := c.store.Clear(ctx); clearErr != nil {
				slog.ErrorContext(ctx, "failed to clear rejected session", "error", clearErr)
			}
		}
		slog.WarnContext(ctx, "vote submission failed", "kind", domain.KindOf(err), "phone", cred.MaskedPhone())
		return nil, err
	}

	if err := c.store.Clear(ctx); err != nil {
		slog.ErrorContext(ctx, "vote cast but session could not be cleared", "error", err)
	}
	c.ballot.Discard()

	slog.InfoContext(ctx, "vote cast", "votes_cast", result.VotesCast, "failed_votes", len(result.FailedVotes), "phone", cred.MaskedPhone())
	return result, nil
}
