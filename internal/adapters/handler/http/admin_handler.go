package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/ports"
	"github.com/vncsmyrnk/ballot/internal/core/services"
)

// AdminHandler manages posts and candidates with the admin token of the
// session.
type AdminHandler struct {
	api  ports.AdminAPI
	repo ports.CredentialRepository
}

func NewAdminHandler(api ports.AdminAPI, repo ports.CredentialRepository) *AdminHandler {
	return &AdminHandler{
		api:  api,
		repo: repo,
	}
}

type adminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createPostRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	IsActive *bool  `json:"is_active"`
}

type createCandidateRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

var adminReauth = reauth{path: adminLoginPath}

func (h *AdminHandler) service(r *http.Request) ports.AdminService {
	store := services.NewSessionStore(h.repo, services.AdminNamespace, SessionID(r.Context()))
	return services.NewAdminService(h.api, store)
}

// RequireSession refuses requests of sessions without an admin token.
func (h *AdminHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, err := h.service(r).Authenticated(r.Context())
		if err != nil {
			writeError(w, r, err, adminReauth)
			return
		}
		if !ok {
			writeError(w, r, domain.ErrNoSession, adminReauth)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := requests.decode(r, &req, false); err != nil {
		writeError(w, r, err, adminReauth)
		return
	}
	if err := h.service(r).Login(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, r, err, adminReauth)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service(r).Logout(r.Context()); err != nil {
		writeError(w, r, err, adminReauth)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AdminHandler) Session(w http.ResponseWriter, r *http.Request) {
	ok, err := h.service(r).Authenticated(r.Context())
	if err != nil {
		writeError(w, r, err, adminReauth)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": ok})
}

// Posts lists every post with its candidates, or the bare posts when
// candidates=false is asked for.
func (h *AdminHandler) Posts(w http.ResponseWriter, r *http.Request) {
	svc := h.service(r)
	list := svc.Posts
	if r.URL.Query().Get("candidates") == "false" {
		list = svc.PostTitles
	}
	posts, err := list(r.Context())
	if err != nil {
		writeError(w, r, err, adminReauth)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.PostRecord{"posts": posts})
}

func (h *AdminHandler) Post(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, adminReauth)
		return
	}
	post, err := h.service(r).Post(r.Context(), postID)
	if err != nil {
		writeError(w, r, err, adminReauth)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *AdminHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := requests.decode(r, &req, false); err != nil {
		writeError(w, r, err, adminReauth)
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	post, err := h.service(r).AddPost(r.Context(), req.Title, active)
	if err != nil {
		writeError(w, r, err, adminReauth)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, adminReauth)
		return
	}
	if err := h.service(r).DeletePost(r.Context(), postID); err != nil {
		writeError(w, r, err, adminReauth)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, adminReauth)
		return
	}
	var req createCandidateRequest
	if err := requests.decode(r, &req, false); err != nil {
		writeError(w, r, err, adminReauth)
		return
	}

	candidate, err := h.service(r).AddCandidate(r.Context(), postID, req.Name)
	if err != nil {
		writeError(w, r, err, adminReauth)
		return
	}
	writeJSON(w, http.StatusCreated, candidate)
}

func (h *AdminHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, adminReauth)
		return
	}
	candidateID, err := pathID(r, "cid")
	if err != nil {
		writeError(w, r, err, adminReauth)
		return
	}
	if err := h.service(r).DeleteCandidate(r.Context(), postID, candidateID); err != nil {
		writeError(w, r, err, adminReauth)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewError(domain.KindValidation, "invalid id %q", raw)
	}
	return id, nil
}
