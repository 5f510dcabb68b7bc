package api

import (
	"net/http"

	"github.com/vytor/memorymatch/internal/models"
)

type themeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path"`
	Active      *bool  `json:"active"`
}

func (t themeRequest) toTheme(id int64) models.Theme {
	active := true
	if t.Active != nil {
		active = *t.Active
	}
	return models.Theme{
		ID:          id,
		Name:        t.Name,
		Description: t.Description,
		ImagePath:   t.ImagePath,
		Active:      active,
	}
}

func (s *Server) handleListThemes(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"
	themes, err := s.ThemeService.List(r.Context(), activeOnly)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if themes == nil {
		themes = []models.Theme{}
	}
	writeJSON(w, http.StatusOK, themes)
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	theme, err := s.ThemeService.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

func (s *Server) handleCreateTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	theme, err := s.ThemeService.Create(r.Context(), userFromContext(r.Context()), req.toTheme(0))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, theme)
}

func (s *Server) handleUpdateTheme(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req themeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	theme, err := s.ThemeService.Update(r.Context(), userFromContext(r.Context()), req.toTheme(id))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

func (s *Server) handleDeleteTheme(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.ThemeService.Delete(r.Context(), userFromContext(r.Context()), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
