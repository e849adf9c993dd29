package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/ports"
)

// LoadBallot fetches posts with candidates and keeps the active ones.
func LoadBallot(ctx context.Context, api ports.VoterAPI) ([]domain.Post, error) {
	records, err := api.PostsWithCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %w", err)
	}
	return domain.BallotFromRecords(records), nil
}

// Ballot maps post ids to the selected candidate id. It starts empty and a
// selection can be replaced but never removed.
type Ballot struct {
	mu         sync.RWMutex
	posts      []domain.Post
	selections map[string]string
}

func NewBallot(posts []domain.Post) *Ballot {
	return &Ballot{
		posts:      posts,
		selections: make(map[string]string),
	}
}

func (b *Ballot) Posts() []domain.Post {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.posts
}

// Select records candidateID for postID, overwriting any earlier choice.
func (b *Ballot) Select(postID, candidateID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	post, ok := b.post(postID)
	if !ok {
		return domain.NewError(domain.KindValidation, "unknown post %q", postID)
	}
	if !post.HasCandidate(candidateID) {
		return domain.NewError(domain.KindValidation, "candidate %q does not stand for %s", candidateID, post.Title)
	}
	b.selections[postID] = candidateID
	return nil
}

func (b *Ballot) Selection(postID string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.selections[postID]
	return c, ok
}

func (b *Ballot) Selections() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]string, len(b.selections))
	for k, v := range b.selections {
		out[k] = v
	}
	return out
}

// IsComplete reports whether every post in allPosts has a selection.
func (b *Ballot) IsComplete(allPosts []domain.Post) bool {
	return len(b.Missing(allPosts)) == 0
}

// Missing lists the ids of posts in allPosts without a selection, in list order.
func (b *Ballot) Missing(allPosts []domain.Post) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var missing []string
	for _, p := range allPosts {
		if _, ok := b.selections[p.ID]; !ok {
			missing = append(missing, p.ID)
		}
	}
	return missing
}

// WireVotes converts the selections, in ballot order, into backend pairs.
func (b *Ballot) WireVotes() ([]domain.WireVote, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	votes := make([]domain.WireVote, 0, len(b.selections))
	for _, p := range b.posts {
		candidateID, ok := b.selections[p.ID]
		if !ok {
			continue
		}
		vote, err := domain.ToWireVote(p.ID, candidateID)
		if err != nil {
			return nil, err
		}
		votes = append(votes, vote)
	}
	return votes, nil
}

// Discard drops every selection and the post list.
func (b *Ballot) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.posts = nil
	b.selections = make(map[string]string)
}

func (b *Ballot) post(postID string) (domain.Post, bool) {
	for _, p := range b.posts {
		if p.ID == postID {
			return p, true
		}
	}
	return domain.Post{}, false
}
