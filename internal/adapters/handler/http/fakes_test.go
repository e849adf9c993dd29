package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/ballot/internal/adapters/api/rest"
	"github.com/vncsmyrnk/ballot/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/services"
)

const (
	testOTP        = "123456"
	testAdminToken = "admin-token"
	testResultsPwd = "tally"
)

// fakeElection is an in-process election API.
type fakeElection struct {
	mu          sync.Mutex
	voterToken  string
	voteStatus  int
	voteMessage string
	adminStatus int
	votes       [][]domain.WireVote
	voteAuth    []string
	deleted     []int64
}

func newFakeElection(t *testing.T) (*fakeElection, *httptest.Server) {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "9733814168",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("election-secret"))
	require.NoError(t, err)

	f := &fakeElection{voterToken: token}

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/api/auth/send-otp", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent successfully"})
	})
	r.Post("/api/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Phone string `json:"phone"`
			OTP   string `json:"otp"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.OTP != testOTP {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid OTP"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": f.voterToken})
	})
	r.Get("/api/posts/with-candidates", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"posts": electionPosts()})
	})
	r.Get("/api/posts", func(w http.ResponseWriter, r *http.Request) {
		posts := electionPosts()
		for i := range posts {
			posts[i].Candidates = nil
		}
		writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
	})
	r.Get("/api/posts/{id}/candidates", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		for _, p := range electionPosts() {
			if p.ID == id {
				candidates := p.Candidates
				p.Candidates = nil
				writeJSON(w, http.StatusOK, map[string]any{"post": p, "candidates": candidates})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Post not found"})
	})
	r.Post("/api/vote", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Votes []domain.WireVote `json:"votes"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		defer f.mu.Unlock()
		f.votes = append(f.votes, body.Votes)
		f.voteAuth = append(f.voteAuth, r.Header.Get("Authorization"))
		if f.voteStatus != 0 {
			writeJSON(w, f.voteStatus, map[string]string{"message": f.voteMessage})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Votes recorded", "votes_cast": len(body.Votes)})
	})
	r.Get("/api/electoral/votes", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, domain.ElectoralPage{
			Voters:     []domain.ElectoralVoter{{VoterID: 1, SlNo: 1, Name: "Karma Dorji"}},
			Pagination: domain.Pagination{CurrentPage: page, TotalPages: 3, HasNextPage: page < 3},
		})
	})
	r.Get("/api/results", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Results-Password") != testResultsPwd {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid password"})
			return
		}
		writeJSON(w, http.StatusOK, domain.Results{Results: []domain.ResultPost{{
			PostID: 1,
			Title:  "President",
			Candidates: []domain.ResultCandidate{
				{CandidateID: 11, Name: "Ramesh", Votes: 40},
				{CandidateID: 12, Name: "Karma", Votes: 62},
			},
		}}})
	})
	r.Post("/api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"token": testAdminToken})
	})
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				f.mu.Lock()
				status := f.adminStatus
				f.mu.Unlock()
				if status != 0 || r.Header.Get("Authorization") != "Bearer "+testAdminToken {
					writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
					return
				}
				next.ServeHTTP(w, r)
			})
		})
		r.Post("/api/posts", func(w http.ResponseWriter, r *http.Request) {
			var body domain.PostRecord
			_ = json.NewDecoder(r.Body).Decode(&body)
			body.ID = 5
			writeJSON(w, http.StatusCreated, map[string]any{"post": body})
		})
		r.Delete("/api/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
			f.mu.Lock()
			f.deleted = append(f.deleted, id)
			f.mu.Unlock()
			writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
		})
		r.Post("/api/posts/{id}/candidates", func(w http.ResponseWriter, r *http.Request) {
			var body domain.CandidateRecord
			_ = json.NewDecoder(r.Body).Decode(&body)
			body.ID = 51
			writeJSON(w, http.StatusCreated, map[string]any{"candidate": body})
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeElection) failVotes(status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voteStatus = status
	f.voteMessage = message
}

func (f *fakeElection) castVotes() ([][]domain.WireVote, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]domain.WireVote(nil), f.votes...), append([]string(nil), f.voteAuth...)
}

func (f *fakeElection) deletedPosts() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.deleted...)
}

func (f *fakeElection) revokeAdmin() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adminStatus = http.StatusUnauthorized
}

func electionPosts() []domain.PostRecord {
	return []domain.PostRecord{
		{ID: 1, Title: "President", IsActive: true, Candidates: []domain.CandidateRecord{{ID: 11, Name: "Ramesh"}, {ID: 12, Name: "Karma"}}},
		{ID: 2, Title: "General Secretary", IsActive: true, Candidates: []domain.CandidateRecord{{ID: 21, Name: "Arun"}, {ID: 22, Name: "Pem"}}},
		{ID: 3, Title: "Vice President", IsActive: true, Candidates: []domain.CandidateRecord{{ID: 31, Name: "Sunita"}, {ID: 32, Name: "Dawa"}}},
		{ID: 4, Title: "Treasurer", IsActive: true, Candidates: []domain.CandidateRecord{{ID: 41, Name: "Tashi"}, {ID: 42, Name: "Mingma"}}},
		{ID: 9, Title: "Retired post", IsActive: false},
	}
}

type testApp struct {
	election *fakeElection
	server   *httptest.Server
	ballots  *BallotRegistry
}

func newTestApp(t *testing.T, unlockAt string, now func() time.Time) *testApp {
	t.Helper()
	election, apiSrv := newFakeElection(t)

	api := rest.NewClient(rest.Config{BaseURL: apiSrv.URL, Timeout: 5 * time.Second})
	repo := memory.NewCredentialRepository(0)
	ballots := NewBallotRegistry(time.Hour)
	gate := services.NewUnlockGate(unlockAt, time.UTC)
	if now != nil {
		gate.WithClock(now)
	}

	auth := NewAuthHandler(api, repo, services.LoginModeOTP, ballots, 2*time.Second)
	handler := NewHandler(
		NewSessionCookies("", false),
		auth,
		NewUserHandler(auth),
		NewVoteHandler(api, repo, ballots, 2*time.Second),
		NewAdminHandler(api, repo),
		NewResultsHandler(gate, services.NewResultsService(gate, api), 10*time.Millisecond),
	)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &testApp{election: election, server: srv, ballots: ballots}
}

// browser is an HTTP client that keeps its session cookie.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (a *testApp) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: a.server.URL, client: &http.Client{Jar: jar}}
}

// do sends body as JSON and decodes the JSON answer into out, if given.
func (b *browser) do(method, path string, body, out any) int {
	b.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(b.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, b.base+path, &buf)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(b.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (b *browser) login() {
	b.t.Helper()
	require.Equal(b.t, http.StatusOK, b.do(http.MethodPost, "/api/auth/send-otp", map[string]string{"phone": "9733814168"}, nil))
	require.Equal(b.t, http.StatusOK, b.do(http.MethodPost, "/api/auth/login", map[string]string{"phone": "9733814168", "otp": testOTP}, nil))
}

func (b *browser) adminLogin() {
	b.t.Helper()
	require.Equal(b.t, http.StatusOK, b.do(http.MethodPost, "/admin/api/login", map[string]string{"email": "admin@example.org", "password": "secret"}, nil))
}

func (b *browser) selectCandidate(postID, candidateID string) {
	b.t.Helper()
	status := b.do(http.MethodPut, "/api/ballot/selections", map[string]string{"post_id": postID, "candidate_id": candidateID}, nil)
	require.Equal(b.t, http.StatusOK, status)
}
