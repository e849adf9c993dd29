package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(
	sessions *SessionCookies,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	voteHandler *VoteHandler,
	adminHandler *AdminHandler,
	resultsHandler *ResultsHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(sessions.Middleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", voteHandler.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/send-otp", authHandler.SendOTP)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/session", userHandler.GetMe)
		})

		r.Route("/ballot", func(r chi.Router) {
			r.Get("/", voteHandler.GetBallot)
			r.Put("/selections", voteHandler.Select)
			r.Post("/submit", voteHandler.Submit)
			r.Post("/confirm", voteHandler.Confirm)
			r.Post("/cancel", voteHandler.Cancel)
		})

		r.Get("/electoral", voteHandler.Electoral)
	})

	r.Route("/admin/api", func(r chi.Router) {
		r.Post("/login", adminHandler.Login)
		r.Post("/logout", adminHandler.Logout)
		r.Get("/session", adminHandler.Session)

		r.Group(func(r chi.Router) {
			r.Use(adminHandler.RequireSession)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", adminHandler.Posts)
				r.Post("/", adminHandler.CreatePost)
				r.Get("/{id}", adminHandler.Post)
				r.Delete("/{id}", adminHandler.DeletePost)
				r.Post("/{id}/candidates", adminHandler.CreateCandidate)
				r.Delete("/{id}/candidates/{cid}", adminHandler.DeleteCandidate)
			})

			r.Route("/results", func(r chi.Router) {
				r.Get("/gate", resultsHandler.Gate)
				r.Get("/gate/ws", resultsHandler.GateWS)
				r.Post("/", resultsHandler.Results)
			})
		})
	})

	return r
}
