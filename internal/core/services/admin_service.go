package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/ports"
)

type AdminService struct {
	api   ports.AdminAPI
	store ports.SessionStore
}

func NewAdminService(api ports.AdminAPI, store ports.SessionStore) *AdminService {
	return &AdminService{
		api:   api,
		store: store,
	}
}

func (s *AdminService) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.NewError(domain.KindValidation, "Please enter email and password.")
	}

	token, err := s.api.AdminLogin(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, domain.Credential{Token: token}); err != nil {
		return err
	}
	slog.InfoContext(ctx, "admin logged in", "email", email)
	return nil
}

func (s *AdminService) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *AdminService) Authenticated(ctx context.Context) (bool, error) {
	cred, err := s.store.Get(ctx)
	if err != nil {
		return false, err
	}
	return cred != nil, nil
}

func (s *AdminService) Posts(ctx context.Context) ([]domain.PostRecord, error) {
	if _, err := s.token(ctx); err != nil {
		return nil, err
	}
	return s.api.PostsWithCandidates(ctx)
}

// PostTitles lists the posts without their candidates.
func (s *AdminService) PostTitles(ctx context.Context) ([]domain.PostRecord, error) {
	if _, err := s.token(ctx); err != nil {
		return nil, err
	}
	return s.api.Posts(ctx)
}

// Post returns one post with its candidates.
func (s *AdminService) Post(ctx context.Context, postID int64) (*domain.PostRecord, error) {
	if _, err := s.token(ctx); err != nil {
		return nil, err
	}
	return s.api.CandidatesByPost(ctx, postID)
}

func (s *AdminService) AddPost(ctx context.Context, title string, active bool) (*domain.PostRecord, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewError(domain.KindValidation, "Post title is required.")
	}
	var post *domain.PostRecord
	err := s.withToken(ctx, func(token string) (err error) {
		post, err = s.api.AddPost(ctx, token, title, active)
		return err
	})
	return post, err
}

func (s *AdminService) DeletePost(ctx context.Context, postID int64) error {
	return s.withToken(ctx, func(token string) error {
		return s.api.DeletePost(ctx, token, postID)
	})
}

func (s *AdminService) AddCandidate(ctx context.Context, postID int64, name string) (*domain.CandidateRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewError(domain.KindValidation, "Candidate name is required.")
	}
	var candidate *domain.CandidateRecord
	err := s.withToken(ctx, func(token string) (err error) {
		candidate, err = s.api.AddCandidate(ctx, token, postID, name)
		return err
	})
	return candidate, err
}

func (s *AdminService) DeleteCandidate(ctx context.Context, postID, candidateID int64) error {
	return s.withToken(ctx, func(token string) error {
		return s.api.DeleteCandidate(ctx, token, postID, candidateID)
	})
}

func (s *AdminService) token(ctx context.Context) (string, error) {
	cred, err := s.store.Get(ctx)
	if err != nil {
		return "", err
	}
	if cred == nil {
		return "", domain.ErrNoSession
	}
	return cred.Token, nil
}

// withToken runs call with the stored admin token and drops the token when the
// API no longer accepts it.
func (s *AdminService) withToken(ctx context.Context, call func(token string) error) error {
	token, err := s.token(ctx)
	if err != nil {
		return err
	}
	err = call(token)
	if errors.Is(err, domain.ErrUnauthorized) {
		if clearErr := s.store.Clear(ctx); clearErr != nil {
			slog.ErrorContext(ctx, "failed to clear admin session", "error", clearErr)
		}
	}
	return err
}
