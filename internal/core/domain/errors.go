package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNetwork              ErrorKind = "NETWORK"
	KindMalformedResponse    ErrorKind = "MALFORMED_RESPONSE"
	KindValidation           ErrorKind = "VALIDATION"
	KindInvalidOTP           ErrorKind = "INVALID_OTP"
	KindAlreadyVoted         ErrorKind = "ALREADY_VOTED"
	KindUnauthorized         ErrorKind = "UNAUTHORIZED"
	KindNotFound             ErrorKind = "NOT_FOUND"
	KindMalformedID          ErrorKind = "MALFORMED_ID"
	KindIncompleteBallot     ErrorKind = "INCOMPLETE_BALLOT"
	KindNoSession            ErrorKind = "NO_SESSION"
	KindInvalidTransition    ErrorKind = "INVALID_TRANSITION"
	KindSubmissionInProgress ErrorKind = "SUBMISSION_IN_PROGRESS"
	KindResultsLocked        ErrorKind = "RESULTS_LOCKED"
	KindInternal             ErrorKind = "INTERNAL"
)

// Error is the classified failure every operation in this module resolves to.
// Two errors are equal under errors.Is when their kinds match.
type Error struct {
	Kind        ErrorKind
	Status      int
	Message     string
	FailedVotes []FailedVote
	Err         error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// ForcesReauth reports whether the session credential is no longer usable.
func (e *Error) ForcesReauth() bool {
	return e.Kind == KindAlreadyVoted || e.Kind == KindUnauthorized
}

var (
	ErrNetwork              = &Error{Kind: KindNetwork, Message: "Unable to connect. Please check your internet connection and try again."}
	ErrMalformedResponse    = &Error{Kind: KindMalformedResponse, Message: "Server returned an unexpected response. Please try again later."}
	ErrValidation           = &Error{Kind: KindValidation, Message: "invalid request"}
	ErrInvalidOTP           = &Error{Kind: KindInvalidOTP, Message: "Invalid OTP. Please check and try again."}
	ErrAlreadyVoted         = &Error{Kind: KindAlreadyVoted, Message: "You have already voted."}
	ErrUnauthorized         = &Error{Kind: KindUnauthorized, Message: "Session expired. Please login again."}
	ErrNotFound             = &Error{Kind: KindNotFound, Message: "not found"}
	ErrMalformedID          = &Error{Kind: KindMalformedID, Message: "malformed identifier"}
	ErrIncompleteBallot     = &Error{Kind: KindIncompleteBallot, Message: "Please select a candidate for all posts."}
	ErrNoSession            = &Error{Kind: KindNoSession, Message: "You are not logged in."}
	ErrInvalidTransition    = &Error{Kind: KindInvalidTransition, Message: "action not allowed in the current state"}
	ErrSubmissionInProgress = &Error{Kind: KindSubmissionInProgress, Message: "Your vote is being submitted. Please wait."}
	ErrResultsLocked        = &Error{Kind: KindResultsLocked, Message: "Results are not available yet."}
)

// NewError builds an error of the given kind with a user-facing message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf classifies err. Errors that did not originate in this module are INTERNAL.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ForcesReauth reports whether err, anywhere in its chain, invalidates the session.
func ForcesReauth(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.ForcesReauth()
	}
	return false
}
