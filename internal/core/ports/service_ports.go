package ports

import (
	"context"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
)

type AuthService interface {
	RequestOTP(ctx context.Context, phone string) (string, error)
	Login(ctx context.Context, phone, code string) error
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*domain.Credential, error)
}

type AdminService interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Authenticated(ctx context.Context) (bool, error)
	Posts(ctx context.Context) ([]domain.PostRecord, error)
	PostTitles(ctx context.Context) ([]domain.PostRecord, error)
	Post(ctx context.Context, postID int64) (*domain.PostRecord, error)
	AddPost(ctx context.Context, title string, active bool) (*domain.PostRecord, error)
	DeletePost(ctx context.Context, postID int64) error
	AddCandidate(ctx context.Context, postID int64, name string) (*domain.CandidateRecord, error)
	DeleteCandidate(ctx context.Context, postID, candidateID int64) error
}

type ResultsService interface {
	Results(ctx context.Context, password string) (*domain.Results, error)
}
