package http

import (
	"net/http"
	"time"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/ports"
	"github.com/vncsmyrnk/ballot/internal/core/services"
)

type AuthHandler struct {
	api           ports.VoterAPI
	repo          ports.CredentialRepository
	mode          services.LoginMode
	ballots       *BallotRegistry
	redirectDelay time.Duration
}

func NewAuthHandler(api ports.VoterAPI, repo ports.CredentialRepository, mode services.LoginMode, ballots *BallotRegistry, redirectDelay time.Duration) *AuthHandler {
	return &AuthHandler{
		api:           api,
		repo:          repo,
		mode:          mode,
		ballots:       ballots,
		redirectDelay: redirectDelay,
	}
}

type sendOTPRequest struct {
	Phone string `json:"phone" validate:"required,max=20"`
}

type loginRequest struct {
	Phone string `json:"phone" validate:"required,max=20"`
	Code  string `json:"otp" validate:"required,max=64"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *AuthHandler) service(r *http.Request) *services.AuthService {
	store := services.NewSessionStore(h.repo, services.VoterNamespace, SessionID(r.Context()))
	return services.NewAuthService(h.api, store, h.mode)
}

func (h *AuthHandler) reauth() reauth {
	return reauth{path: voterLoginPath, delay: h.redirectDelay}
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := requests.decode(r, &req, false); err != nil {
		writeError(w, r, err, h.reauth())
		return
	}

	msg, err := h.service(r).RequestOTP(r.Context(), req.Phone)
	if err != nil {
		writeError(w, r, err, h.reauth())
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

// Login verifies the OTP (or pre-issued code) and starts a fresh ballot for
// the session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := requests.decode(r, &req, false); err != nil {
		writeError(w, r, err, h.reauth())
		return
	}

	svc := h.service(r)
	if err := svc.Login(r.Context(), req.Phone, req.Code); err != nil {
		writeError(w, r, err, h.reauth())
		return
	}
	h.ballots.Drop(SessionID(r.Context()))

	cred, err := svc.Session(r.Context())
	if err != nil {
		writeError(w, r, err, h.reauth())
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(cred, h.mode))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service(r).Logout(r.Context()); err != nil {
		writeError(w, r, err, h.reauth())
		return
	}
	h.ballots.Drop(SessionID(r.Context()))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type sessionResponse struct {
	Authenticated bool               `json:"authenticated"`
	Phone         string             `json:"phone,omitempty"`
	LoginMode     services.LoginMode `json:"login_mode"`
	ExpiresAt     *time.Time         `json:"expires_at,omitempty"`
}

func newSessionResponse(cred *domain.Credential, mode services.LoginMode) sessionResponse {
	resp := sessionResponse{LoginMode: mode}
	if cred == nil {
		return resp
	}
	resp.Authenticated = true
	resp.Phone = cred.MaskedPhone()
	if exp, ok := cred.ExpiresAt(); ok {
		resp.ExpiresAt = &exp
	}
	return resp
}
