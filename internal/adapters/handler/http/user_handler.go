package http

import (
	"net/http"
)

// UserHandler reports who the current voting session belongs to.
type UserHandler struct {
	auth *AuthHandler
}

func NewUserHandler(auth *AuthHandler) *UserHandler {
	return &UserHandler{
		auth: auth,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	cred, err := h.auth.service(r).Session(r.Context())
	if err != nil {
		writeError(w, r, err, h.auth.reauth())
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(cred, h.auth.mode))
}
