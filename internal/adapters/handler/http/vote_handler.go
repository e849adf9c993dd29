package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/ports"
	"github.com/vncsmyrnk/ballot/internal/core/services"
)

type VoteHandler struct {
	api           ports.VoterAPI
	repo          ports.CredentialRepository
	ballots       *BallotRegistry
	redirectDelay time.Duration
}

func NewVoteHandler(api ports.VoterAPI, repo ports.CredentialRepository, ballots *BallotRegistry, redirectDelay time.Duration) *VoteHandler {
	return &VoteHandler{
		api:           api,
		repo:          repo,
		ballots:       ballots,
		redirectDelay: redirectDelay,
	}
}

type selectRequest struct {
	PostID      string `json:"post_id" validate:"required"`
	CandidateID string `json:"candidate_id" validate:"required"`
}

type submitRequest struct {
	Override bool `json:"override"`
}

type ballotResponse struct {
	Posts      []domain.Post            `json:"posts"`
	Selections map[string]string        `json:"selections"`
	State      services.SubmissionState `json:"state"`
	Complete   bool                     `json:"complete"`
	Missing    []string                 `json:"missing,omitempty"`
}

type confirmResponse struct {
	State       services.SubmissionState `json:"state"`
	Message     string                   `json:"message"`
	VotesCast   int                      `json:"votes_cast"`
	FailedVotes []domain.FailedVote      `json:"failed_votes,omitempty"`
}

func newBallotResponse(c *services.SubmissionController) ballotResponse {
	b := c.Ballot()
	posts := b.Posts()
	missing := b.Missing(posts)
	return ballotResponse{
		Posts:      posts,
		Selections: b.Selections(),
		State:      c.State(),
		Complete:   len(missing) == 0,
		Missing:    missing,
	}
}

func (h *VoteHandler) reauth() reauth {
	return reauth{path: voterLoginPath, delay: h.redirectDelay}
}

func (h *VoteHandler) store(ctx context.Context) ports.SessionStore {
	return services.NewSessionStore(h.repo, services.VoterNamespace, SessionID(ctx))
}

// controller returns the session's controller. A new one, with a freshly
// fetched ballot, is only built for a logged in session.
func (h *VoteHandler) controller(ctx context.Context) (*services.SubmissionController, error) {
	sessionID := SessionID(ctx)
	if c, ok := h.ballots.Get(sessionID); ok {
		return c, nil
	}

	store := h.store(ctx)
	cred, err := store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, domain.ErrNoSession
	}

	return h.ballots.GetOrCreate(ctx, sessionID, func(ctx context.Context) (*services.SubmissionController, error) {
		posts, err := services.LoadBallot(ctx, h.api)
		if err != nil {
			return nil, err
		}
		return services.NewSubmissionController(h.api, store, services.NewBallot(posts), h.redirectDelay), nil
	})
}

func (h *VoteHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.api.Health(r.Context()); err != nil {
		writeError(w, r, err, h.reauth())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *VoteHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	c, err := h.controller(r.Context())
	if err != nil {
		writeError(w, r, err, h.reauth())
		return
	}
	writeJSON(w, http.StatusOK, newBallotResponse(c))
}

func (h *VoteHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := requests.decode(r, &req, false); err != nil {
		writeError(w, r, err, h.reauth())
		return
	}

	c, err := h.controller(r.Context())
	if err != nil {
		writeError(w, r, err, h.reauth())
		return
	}
	switch c.State() {
	case services.StateSubmitting:
		writeError(w, r, domain.ErrSubmissionInProgress, h.reauth())
		return
	case services.StateSucceeded, services.StateFailed:
		writeError(w, r, domain.ErrInvalidTransition, h.reauth())
		return
	}

	if err := c.Ballot().Select(req.PostID, req.CandidateID); err != nil {
		writeError(w, r, err, h.reauth())
		return
	}
	writeJSON(w, http.StatusOK, newBallotResponse(c))
}

// Submit asks for confirmation. An incomplete ballot is refused with the
// missing posts unless override is set.
func (h *VoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := requests.decode(r, &req, true); err != nil {
		writeError(w, r, err, h.reauth())
		return
	}

	c, err := h.controller(r.Context())
	if err != nil {
		writeError(w, r, err, h.reauth())
		return
	}

	if err := c.RequestSubmit(r.Context(), req.Override); err != nil {
		resp := newErrorResponse(r, err, h.reauth())
		if errors.Is(err, domain.ErrIncompleteBallot) {
			resp.MissingPosts = c.Ballot().Missing(c.Ballot().Posts())
		}
		writeJSON(w, statusFor(resp.Kind), resp)
		return
	}
	writeJSON(w, http.StatusOK, newBallotResponse(c))
}

func (h *VoteHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	c, err := h.controller(r.Context())
	if err != nil {
		writeError(w, r, err, h.reauth())
		return
	}
	if err := c.Cancel(); err != nil {
		writeError(w, r, err, h.reauth())
		return
	}
	writeJSON(w, http.StatusOK, newBallotResponse(c))
}

func (h *VoteHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	c, err := h.controller(r.Context())
	if err != nil {
		writeError(w, r, err, h.reauth())
		return
	}

	result, err := c.Confirm(r.Context())
	if err != nil {
		if c.State() == services.StateFailed {
			h.ballots.Drop(SessionID(r.Context()))
		}
		writeError(w, r, err, reauth{path: voterLoginPath, delay: c.RedirectDelay()})
		return
	}

	// the credential is gone, the ballot has nothing left to do
	h.ballots.Drop(SessionID(r.Context()))

	writeJSON(w, http.StatusOK, confirmResponse{
		State:       c.State(),
		Message:     result.Message,
		VotesCast:   result.VotesCast,
		FailedVotes: result.FailedVotes,
	})
}

func (h *VoteHandler) Electoral(w http.ResponseWriter, r *http.Request) {
	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, domain.NewError(domain.KindValidation, "Invalid page number."), h.reauth())
			return
		}
		page = n
	}

	voters, err := h.api.ElectoralVotes(r.Context(), page)
	if err != nil {
		writeError(w, r, err, h.reauth())
		return
	}
	writeJSON(w, http.StatusOK, voters)
}
