package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
)

type endpoint string

const (
	endpointHealth        endpoint = "health"
	endpointSendOTP       endpoint = "send-otp"
	endpointVerifyOTP     endpoint = "verify-otp"
	endpointCastVote      endpoint = "vote"
	endpointPosts         endpoint = "posts"
	endpointCandidates    endpoint = "candidates"
	endpointElectoral     endpoint = "electoral"
	endpointAdminLogin    endpoint = "admin-login"
	endpointResults       endpoint = "results"
	endpointAdminMutation endpoint = "admin-mutation"
)

type errorBody struct {
	Message     string              `json:"message"`
	Error       string              `json:"error"`
	FailedVotes []domain.FailedVote `json:"failed_votes"`
}

// classify turns a non-2xx response into a domain error. It is the only place
// that interprets error statuses of the election API.
func classify(ep endpoint, status int, statusText string, payload json.RawMessage) error {
	var body errorBody
	if len(payload) > 0 {
		// error bodies that are valid JSON but not objects carry no message
		_ = json.Unmarshal(payload, &body)
	}
	serverMsg := body.Message
	if serverMsg == "" {
		serverMsg = body.Error
	}

	e := &domain.Error{Kind: kindForStatus(status), Status: status}
	e.Message = serverMsg
	if e.Message == "" {
		e.Message = fmt.Sprintf("Request failed: %s", statusText)
	}

	switch ep {
	case endpointSendOTP:
		switch status {
		case http.StatusNotFound:
			e.Message = "Phone number not found in voter database."
		case http.StatusForbidden:
			e.Kind = domain.KindAlreadyVoted
			e.Message = "You have already voted. Cannot request OTP again."
		case http.StatusBadRequest:
			e.Message = orDefault(serverMsg, "Invalid phone number format.")
		}
	case endpointVerifyOTP:
		switch status {
		case http.StatusUnauthorized:
			e.Kind = domain.KindInvalidOTP
			e.Message = "Invalid OTP. Please check and try again."
		case http.StatusBadRequest:
			e.Kind = domain.KindInvalidOTP
			e.Message = orDefault(serverMsg, "Invalid or expired OTP. Please check and try again.")
		case http.StatusForbidden:
			e.Kind = domain.KindAlreadyVoted
			e.Message = orDefault(serverMsg, "You have already voted. Cannot login again.")
		case http.StatusNotFound:
			e.Message = orDefault(serverMsg, "Voter not found.")
		}
	case endpointCastVote:
		switch status {
		case http.StatusUnauthorized:
			e.Message = "Session expired. Please login again."
		case http.StatusForbidden:
			e.Kind = domain.KindAlreadyVoted
			e.Message = "You have already voted for one or more posts."
		case http.StatusBadRequest:
			e.Message = orDefault(serverMsg, "Invalid vote data. Please check your selections.")
		case http.StatusNotFound:
			e.Message = orDefault(serverMsg, "Post or candidate not found.")
		}
		if len(body.FailedVotes) > 0 {
			e.FailedVotes = body.FailedVotes
			parts := make([]string, 0, len(body.FailedVotes))
			for _, fv := range body.FailedVotes {
				parts = append(parts, fmt.Sprintf("Post %d: %s", fv.PostID, fv.Error))
			}
			e.Message += " Failed votes: " + strings.Join(parts, ", ")
		}
	case endpointAdminLogin:
		if status == http.StatusUnauthorized {
			e.Message = orDefault(serverMsg, "Invalid email or password.")
		}
	case endpointResults:
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			e.Kind = domain.KindUnauthorized
			e.Message = orDefault(serverMsg, "Failed to load results. Check the password.")
		}
	}
	return e
}

func kindForStatus(status int) domain.ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return domain.KindUnauthorized
	case status == http.StatusForbidden:
		return domain.KindUnauthorized
	case status == http.StatusNotFound:
		return domain.KindNotFound
	case status >= 400 && status < 500:
		return domain.KindValidation
	default:
		return domain.KindInternal
	}
}

func orDefault(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
