package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const requestTimeout = 10 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(s.userMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		// Streams are long-lived and must not be buffered by the timeout handler.
		r.Get("/games/{id}/clock", s.handleGameClock)

		r.Group(func(r chi.Router) {
			r.Use(timeoutMiddleware(requestTimeout))

			r.Post("/games", s.handleStartGame)
			r.Get("/games/{id}", s.handleGetGame)
			r.Post("/games/{id}/flip", s.handleFlip)
			r.Post("/games/{id}/restart", s.handleRestartGame)
			r.Delete("/games/{id}", s.handleAbandonGame)

			r.Get("/leaderboard", s.handleLeaderboard)
			r.Get("/scores", s.handleListScores)
			r.Delete("/scores/{id}", s.handleDeleteScore)

			r.Get("/themes", s.handleListThemes)
			r.Post("/themes", s.handleCreateTheme)
			r.Get("/themes/{id}", s.handleGetTheme)
			r.Put("/themes/{id}", s.handleUpdateTheme)
			r.Delete("/themes/{id}", s.handleDeleteTheme)

			r.Get("/users", s.handleListUsers)
			r.Post("/users", s.handleRegister)
			r.Get("/users/available", s.handleUsernameAvailable)
			r.Put("/users/{id}/active", s.handleSetUserActive)
			r.Put("/users/{id}/role", s.handleSetUserRole)
			r.Delete("/users/{id}", s.handleDeleteUser)
			r.Get("/admin/users", s.handleListAccounts)
			r.Get("/me", s.handleMe)
			r.Put("/me/password", s.handleChangePassword)
			r.With(s.loginRateLimit).Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
		})
	})
	return r
}
