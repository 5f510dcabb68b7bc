package api

import (
	"net/http"

	"github.com/vytor/memorymatch/internal/errors"
	"github.com/vytor/memorymatch/internal/logger"
	"github.com/vytor/memorymatch/internal/models"
	"github.com/vytor/memorymatch/internal/services"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	Current string `json:"current_password"`
	New     string `json:"new_password"`
}

type setActiveRequest struct {
	Active *bool `json:"active"`
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// playerSummary is the public face of a user in player lists.
type playerSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	user, err := s.UserService.Register(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	token, user, err := s.UserService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	setSessionCookie(w, token)
	log.Info("user %s logged in", user.Username)
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		s.UserService.Logout(r.Context(), cookie.Value)
	}
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("login required"))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		handleError(w, r, errors.NewUnauthorizedError("login required"))
		return
	}
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.UserService.ChangePassword(r.Context(), user.ID, req.Current, req.New); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListUsers feeds the leaderboard's player filter.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.UserService.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	out := make([]playerSummary, 0, len(users))
	for _, u := range users {
		if !u.Active {
			continue
		}
		out = append(out, summarize(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func summarize(u models.User) playerSummary {
	return playerSummary{ID: u.ID, Username: u.Username, Name: u.FullName()}
}

func (s *Server) handleUsernameAvailable(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	available, err := s.UserService.UsernameAvailable(r.Context(), username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"username": username, "available": available})
}

// handleListAccounts is the administrators' user table, inactive accounts
// included.
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	users, err := s.UserService.ListAccounts(r.Context(), userFromContext(r.Context()), r.URL.Query().Get("role"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleSetUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req setActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Active == nil {
		handleError(w, r, errors.NewBadRequestError("active is required"))
		return
	}
	user, err := s.UserService.SetActive(r.Context(), userFromContext(r.Context()), id, *req.Active)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleSetUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req setRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	user, err := s.UserService.UpdateRole(r.Context(), userFromContext(r.Context()), id, req.Role)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.UserService.Delete(r.Context(), userFromContext(r.Context()), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
