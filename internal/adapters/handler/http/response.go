package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
)

const (
	voterLoginPath = "/login"
	adminLoginPath = "/admin/login"
)

type errorResponse struct {
	Kind            domain.ErrorKind    `json:"kind"`
	Message         string              `json:"message"`
	FailedVotes     []domain.FailedVote `json:"failed_votes,omitempty"`
	MissingPosts    []string            `json:"missing_posts,omitempty"`
	ClearFields     []string            `json:"clear_fields,omitempty"`
	Redirect        string              `json:"redirect,omitempty"`
	RedirectAfterMS int64               `json:"redirect_after_ms,omitempty"`
}

// reauth tells the client where to go once its session is gone.
type reauth struct {
	path  string
	delay time.Duration
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindMalformedID:
		return http.StatusBadRequest
	case domain.KindInvalidOTP, domain.KindUnauthorized, domain.KindNoSession:
		return http.StatusUnauthorized
	case domain.KindAlreadyVoted:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidTransition, domain.KindSubmissionInProgress:
		return http.StatusConflict
	case domain.KindIncompleteBallot:
		return http.StatusUnprocessableEntity
	case domain.KindResultsLocked:
		return http.StatusLocked
	case domain.KindNetwork, domain.KindMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newErrorResponse(r *http.Request, err error, re reauth) errorResponse {
	kind := domain.KindOf(err)
	resp := errorResponse{Kind: kind, Message: err.Error()}

	var e *domain.Error
	if errors.As(err, &e) {
		resp.FailedVotes = e.FailedVotes
	}

	switch {
	case kind == domain.KindInternal:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		resp.Message = "Something went wrong. Please try again."
	case kind == domain.KindInvalidOTP:
		resp.ClearFields = []string{"otp"}
	case domain.ForcesReauth(err) || kind == domain.KindNoSession:
		resp.Redirect = re.path
		resp.RedirectAfterMS = re.delay.Milliseconds()
	}
	return resp
}

func writeError(w http.ResponseWriter, r *http.Request, err error, re reauth) {
	resp := newErrorResponse(r, err, re)
	writeJSON(w, statusFor(resp.Kind), resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
