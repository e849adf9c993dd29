package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/ports"
)

type LoginMode string

const (
	// LoginModeOTP sends a one-time code to the phone before verifying it.
	LoginModeOTP LoginMode = "otp"
	// LoginModeCode verifies a unique code issued ahead of the election.
	LoginModeCode LoginMode = "code"
)

func ParseLoginMode(s string) (LoginMode, error) {
	switch LoginMode(strings.ToLower(strings.TrimSpace(s))) {
	case LoginModeOTP, "":
		return LoginModeOTP, nil
	case LoginModeCode:
		return LoginModeCode, nil
	default:
		return "", fmt.Errorf("unknown login mode %q", s)
	}
}

type AuthService struct {
	api   ports.VoterAPI
	store ports.SessionStore
	mode  LoginMode
}

func NewAuthService(api ports.VoterAPI, store ports.SessionStore, mode LoginMode) *AuthService {
	return &AuthService{
		api:   api,
		store: store,
		mode:  mode,
	}
}

func (s *AuthService) Mode() LoginMode {
	return s.mode
}

func (s *AuthService) RequestOTP(ctx context.Context, phone string) (string, error) {
	if s.mode != LoginModeOTP {
		return "", domain.NewError(domain.KindValidation, "One-time codes are not used for this election. Enter the unique code you received.")
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", domain.NewError(domain.KindValidation, "Please enter your phone number.")
	}

	msg, err := s.api.SendOTP(ctx, phone)
	if err != nil {
		s.teardownIfRejected(ctx, err)
		return "", err
	}
	slog.InfoContext(ctx, "otp requested", "phone", domain.MaskPhone(phone))
	return msg, nil
}

// Login exchanges phone and code for a voting token and stores both.
func (s *AuthService) Login(ctx context.Context, phone, code string) error {
	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)
	if phone == "" || code == "" {
		return domain.NewError(domain.KindValidation, "Please enter both your phone number and code.")
	}

	token, err := s.api.VerifyOTP(ctx, phone, code)
	if err != nil {
		s.teardownIfRejected(ctx, err)
		return err
	}

	cred := domain.Credential{Token: token, Phone: phone}
	if err := s.store.Set(ctx, cred); err != nil {
		return err
	}

	attrs := []any{"phone", cred.MaskedPhone(), "mode", s.mode}
	if exp, ok := cred.ExpiresAt(); ok {
		attrs = append(attrs, "expires_at", exp)
	}
	slog.InfoContext(ctx, "voter logged in", attrs...)
	return nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *AuthService) Session(ctx context.Context) (*domain.Credential, error) {
	return s.store.Get(ctx)
}

func (s *AuthService) teardownIfRejected(ctx context.Context, err error) {
	if !domain.ForcesReauth(err) {
		return
	}
	if clearErr := s.store.Clear(ctx); clearErr != nil {
		slog.ErrorContext(ctx, "failed to clear session", "error", clearErr)
	}
}
