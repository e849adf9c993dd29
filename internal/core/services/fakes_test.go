package services

import (
	"context"
	"sync"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
)

// fakeAPI implements ports.ElectionAPI with overridable calls.
type fakeAPI struct {
	mu        sync.Mutex
	castCalls [][]domain.WireVote
	tokens    []string
	castErrs  []error

	sendOTP    func(phone string) (string, error)
	verifyOTP  func(phone, otp string) (string, error)
	posts      func() ([]domain.PostRecord, error)
	castVote   func(token string, votes []domain.WireVote) (*domain.CastVoteResult, error)
	adminLogin func(email, password string) (string, error)
	addPost    func(token, title string, active bool) (*domain.PostRecord, error)
	deletePost func(token string, postID int64) error
	results    func(password string) (*domain.Results, error)
}

func (f *fakeAPI) Health(ctx context.Context) error { return nil }

func (f *fakeAPI) SendOTP(ctx context.Context, phone string) (string, error) {
	return f.sendOTP(phone)
}

func (f *fakeAPI) VerifyOTP(ctx context.Context, phone, otp string) (string, error) {
	return f.verifyOTP(phone, otp)
}

func (f *fakeAPI) PostsWithCandidates(ctx context.Context) ([]domain.PostRecord, error) {
	return f.posts()
}

func (f *fakeAPI) CastVote(ctx context.Context, token string, votes []domain.WireVote) (*domain.CastVoteResult, error) {
	f.mu.Lock()
	f.castCalls = append(f.castCalls, votes)
	f.tokens = append(f.tokens, token)
	f.mu.Unlock()
	res, err := f.castVote(token, votes)
	f.mu.Lock()
	f.castErrs = append(f.castErrs, ctx.Err())
	f.mu.Unlock()
	return res, err
}

func (f *fakeAPI) ElectoralVotes(ctx context.Context, page int) (*domain.ElectoralPage, error) {
	return &domain.ElectoralPage{}, nil
}

func (f *fakeAPI) AdminLogin(ctx context.Context, email, password string) (string, error) {
	return f.adminLogin(email, password)
}

func (f *fakeAPI) Posts(ctx context.Context) ([]domain.PostRecord, error) {
	records, err := f.posts()
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Candidates = nil
	}
	return records, nil
}

func (f *fakeAPI) CandidatesByPost(ctx context.Context, postID int64) (*domain.PostRecord, error) {
	records, err := f.posts()
	if err != nil {
		return nil, err
	}
	for _, p := range records {
		if p.ID == postID {
			return &p, nil
		}
	}
	return nil, &domain.Error{Kind: domain.KindNotFound, Status: 404, Message: "Post not found."}
}

func (f *fakeAPI) AddPost(ctx context.Context, token, title string, active bool) (*domain.PostRecord, error) {
	return f.addPost(token, title, active)
}

func (f *fakeAPI) DeletePost(ctx context.Context, token string, postID int64) error {
	return f.deletePost(token, postID)
}

func (f *fakeAPI) AddCandidate(ctx context.Context, token string, postID int64, name string) (*domain.CandidateRecord, error) {
	return &domain.CandidateRecord{ID: 1, Name: name}, nil
}

func (f *fakeAPI) DeleteCandidate(ctx context.Context, token string, postID, candidateID int64) error {
	return nil
}

func (f *fakeAPI) Results(ctx context.Context, password string) (*domain.Results, error) {
	return f.results(password)
}

// castContextErrs returns ctx.Err() of every CastVote call, read when the
// call returned.
func (f *fakeAPI) castContextErrs() []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]error(nil), f.castErrs...)
}

func (f *fakeAPI) castCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.castCalls)
}

// fourPostRecords is a ballot of four active posts with two candidates each.
func fourPostRecords() []domain.PostRecord {
	return []domain.PostRecord{
		{ID: 1, Title: "President", IsActive: true, Candidates: []domain.CandidateRecord{{ID: 11, Name: "Ramesh"}, {ID: 12, Name: "Karma"}}},
		{ID: 2, Title: "General Secretary", IsActive: true, Candidates: []domain.CandidateRecord{{ID: 21, Name: "Arun"}, {ID: 22, Name: "Pem"}}},
		{ID: 3, Title: "Vice President", IsActive: true, Candidates: []domain.CandidateRecord{{ID: 31, Name: "Sunita"}, {ID: 32, Name: "Dawa"}}},
		{ID: 4, Title: "Treasurer", IsActive: true, Candidates: []domain.CandidateRecord{{ID: 41, Name: "Tashi"}, {ID: 42, Name: "Mingma"}}},
	}
}
