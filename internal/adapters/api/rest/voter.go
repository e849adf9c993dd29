package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
)

type sendOTPRequest struct {
	Phone string `json:"phone"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type verifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

type tokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

type castVoteRequest struct {
	Votes []domain.WireVote `json:"votes"`
}

type postsResponse struct {
	Posts []domain.PostRecord `json:"posts"`
}

type candidatesResponse struct {
	Post       domain.PostRecord        `json:"post"`
	Candidates []domain.CandidateRecord `json:"candidates"`
}

// SendOTP asks the API to text a one-time code to phone.
func (c *Client) SendOTP(ctx context.Context, phone string) (string, error) {
	var res messageResponse
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/api/auth/send-otp",
		endpoint: endpointSendOTP,
		body:     sendOTPRequest{Phone: phone},
	}, &res)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

// VerifyOTP exchanges phone and code for a voting token.
func (c *Client) VerifyOTP(ctx context.Context, phone, otp string) (string, error) {
	var res tokenResponse
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/api/auth/verify-otp",
		endpoint: endpointVerifyOTP,
		body:     verifyOTPRequest{Phone: phone, OTP: otp},
	}, &res)
	if err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", &domain.Error{Kind: domain.KindMalformedResponse, Message: "No token received from server"}
	}
	return res.Token, nil
}

func (c *Client) CastVote(ctx context.Context, token string, votes []domain.WireVote) (*domain.CastVoteResult, error) {
	var res domain.CastVoteResult
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/api/vote",
		endpoint: endpointCastVote,
		token:    token,
		body:     castVoteRequest{Votes: votes},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Posts lists active posts without candidates.
func (c *Client) Posts(ctx context.Context) ([]domain.PostRecord, error) {
	var res postsResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/posts", endpoint: endpointPosts}, &res); err != nil {
		return nil, err
	}
	return res.Posts, nil
}

func (c *Client) PostsWithCandidates(ctx context.Context) ([]domain.PostRecord, error) {
	var res postsResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/posts/with-candidates", endpoint: endpointPosts}, &res); err != nil {
		return nil, err
	}
	return res.Posts, nil
}

// CandidatesByPost returns one post with its candidates attached.
func (c *Client) CandidatesByPost(ctx context.Context, postID int64) (*domain.PostRecord, error) {
	var res candidatesResponse
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/api/posts/" + strconv.FormatInt(postID, 10) + "/candidates",
		endpoint: endpointCandidates,
	}, &res)
	if err != nil {
		var e *domain.Error
		if errors.As(err, &e) && e.Kind == domain.KindNotFound {
			e.Message = fmt.Sprintf("Post with ID %d not found.", postID)
		}
		return nil, err
	}
	post := res.Post
	post.Candidates = res.Candidates
	return &post, nil
}

func (c *Client) ElectoralVotes(ctx context.Context, page int) (*domain.ElectoralPage, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{"page": []string{strconv.Itoa(page)}}

	var res domain.ElectoralPage
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/api/electoral/votes?" + q.Encode(),
		endpoint: endpointElectoral,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
