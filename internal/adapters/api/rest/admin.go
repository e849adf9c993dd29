package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
)

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type addPostRequest struct {
	Title    string `json:"title"`
	IsActive bool   `json:"is_active"`
}

type addPostResponse struct {
	Post *domain.PostRecord `json:"post"`
}

type addCandidateRequest struct {
	Name string `json:"name"`
}

type addCandidateResponse struct {
	Candidate *domain.CandidateRecord `json:"candidate"`
}

func (c *Client) AdminLogin(ctx context.Context, email, password string) (string, error) {
	var res tokenResponse
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/api/admin/login",
		endpoint: endpointAdminLogin,
		body:     adminLoginRequest{Email: email, Password: password},
	}, &res)
	if err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", &domain.Error{Kind: domain.KindMalformedResponse, Message: "No token received from server"}
	}
	return res.Token, nil
}

// Results fetches the tally. The password travels in a header and is checked
// by the API only.
func (c *Client) Results(ctx context.Context, password string) (*domain.Results, error) {
	var res domain.Results
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/api/results",
		endpoint: endpointResults,
		header:   map[string]string{resultsPasswordHeader: password},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// AddPost creates a post. The API may answer with only a message, in which
// case the returned post is nil.
func (c *Client) AddPost(ctx context.Context, token, title string, active bool) (*domain.PostRecord, error) {
	var res addPostResponse
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/api/posts",
		endpoint: endpointAdminMutation,
		token:    token,
		body:     addPostRequest{Title: title, IsActive: active},
	}, &res)
	if err != nil {
		return nil, err
	}
	return res.Post, nil
}

func (c *Client) DeletePost(ctx context.Context, token string, postID int64) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		path:     "/api/posts/" + strconv.FormatInt(postID, 10),
		endpoint: endpointAdminMutation,
		token:    token,
	}, nil)
}

func (c *Client) AddCandidate(ctx context.Context, token string, postID int64, name string) (*domain.CandidateRecord, error) {
	var res addCandidateResponse
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/api/posts/" + strconv.FormatInt(postID, 10) + "/candidates",
		endpoint: endpointAdminMutation,
		token:    token,
		body:     addCandidateRequest{Name: name},
	}, &res)
	if err != nil {
		return nil, err
	}
	return res.Candidate, nil
}

func (c *Client) DeleteCandidate(ctx context.Context, token string, postID, candidateID int64) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		path:     "/api/posts/" + strconv.FormatInt(postID, 10) + "/candidates/" + strconv.FormatInt(candidateID, 10),
		endpoint: endpointAdminMutation,
		token:    token,
	}, nil)
}
