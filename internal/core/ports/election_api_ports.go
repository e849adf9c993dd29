package ports

import (
	"context"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
)

// VoterAPI is the voter-facing half of the external election API.
type VoterAPI interface {
	Health(ctx context.Context) error
	SendOTP(ctx context.Context, phone string) (string, error)
	VerifyOTP(ctx context.Context, phone, otp string) (string, error)
	PostsWithCandidates(ctx context.Context) ([]domain.PostRecord, error)
	CastVote(ctx context.Context, token string, votes []domain.WireVote) (*domain.CastVoteResult, error)
	ElectoralVotes(ctx context.Context, page int) (*domain.ElectoralPage, error)
}

// AdminAPI is the admin half of the external election API.
type AdminAPI interface {
	AdminLogin(ctx context.Context, email, password string) (string, error)
	Posts(ctx context.Context) ([]domain.PostRecord, error)
	PostsWithCandidates(ctx context.Context) ([]domain.PostRecord, error)
	CandidatesByPost(ctx context.Context, postID int64) (*domain.PostRecord, error)
	AddPost(ctx context.Context, token, title string, active bool) (*domain.PostRecord, error)
	DeletePost(ctx context.Context, token string, postID int64) error
	AddCandidate(ctx context.Context, token string, postID int64, name string) (*domain.CandidateRecord, error)
	DeleteCandidate(ctx context.Context, token string, postID, candidateID int64) error
	Results(ctx context.Context, password string) (*domain.Results, error)
}

type ElectionAPI interface {
	VoterAPI
	AdminAPI
}
