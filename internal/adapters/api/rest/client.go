package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/ports"
)

const (
	DefaultTimeout = 15 * time.Second

	resultsPasswordHeader = "X-Results-Password"
)

// Config holds API configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the election REST API. It never retries: every failure is
// returned classified so the caller can decide.
type Client struct {
	config     Config
	httpClient *http.Client
}

var _ ports.ElectionAPI = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type request struct {
	method   string
	path     string
	endpoint endpoint
	token    string
	header   map[string]string
	body     any
}

// do sends req and decodes a successful body into out. out may be nil.
func (c *Client) do(ctx context.Context, req request, out any) error {
	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return &domain.Error{Kind: domain.KindInternal, Message: "failed to encode request", Err: err}
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.config.BaseURL+req.path, body)
	if err != nil {
		return &domain.Error{Kind: domain.KindInternal, Message: "failed to build request", Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	for k, v := range req.header {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}

	payload, err := parseJSON(raw)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classify(req.endpoint, resp.StatusCode, http.StatusText(resp.StatusCode), payload)
	}
	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &domain.Error{Kind: domain.KindMalformedResponse, Status: resp.StatusCode, Message: domain.ErrMalformedResponse.Message, Err: err}
	}
	return nil
}

// parseJSON rejects HTML and anything that is not JSON. An empty body is valid.
func parseJSON(raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '<' || !json.Valid(trimmed) {
		return nil, &domain.Error{Kind: domain.KindMalformedResponse, Message: domain.ErrMalformedResponse.Message}
	}
	return json.RawMessage(trimmed), nil
}

func networkError(err error) error {
	if errors.Is(err, context.Canceled) {
		return &domain.Error{Kind: domain.KindNetwork, Message: "Request cancelled.", Err: err}
	}
	return &domain.Error{Kind: domain.KindNetwork, Message: domain.ErrNetwork.Message, Err: err}
}

func (c *Client) Health(ctx context.Context) error {
	var res struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/health", endpoint: endpointHealth}, &res); err != nil {
		return err
	}
	if res.Status != "" && !strings.EqualFold(res.Status, "ok") && !strings.EqualFold(res.Status, "healthy") {
		return fmt.Errorf("election api unhealthy: %s", res.Status)
	}
	return nil
}
