package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/memorymatch/internal/errors"
	"github.com/vytor/memorymatch/internal/leaderboard"
	"github.com/vytor/memorymatch/internal/models"
)

func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewBadRequestError("invalid " + name + ": " + raw)
	}
	return id, nil
}

// parseFilterID reads an optional id filter. Missing, empty and "all" mean
// no filter.
func parseFilterID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" || raw == "all" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, errors.NewBadRequestError("invalid " + name + ": " + raw)
	}
	return id, nil
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	playerID, err := parseFilterID(r, "player")
	if err != nil {
		handleError(w, r, err)
		return
	}
	themeID, err := parseFilterID(r, "theme")
	if err != nil {
		handleError(w, r, err)
		return
	}
	key := leaderboard.ParseSortKey(r.URL.Query().Get("sort"))

	view, err := s.ScoreService.Leaderboard(r.Context(), key, playerID, themeID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if view.Scores == nil {
		view.Scores = []models.Score{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sort":   key,
		"mode":   view.Mode,
		"scores": view.Scores,
	})
}

func (s *Server) handleListScores(w http.ResponseWriter, r *http.Request) {
	order := models.ScoreOrder(r.URL.Query().Get("order"))
	scores, err := s.ScoreService.List(r.Context(), order)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if scores == nil {
		scores = []models.Score{}
	}
	writeJSON(w, http.StatusOK, scores)
}

func (s *Server) handleDeleteScore(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.ScoreService.Delete(r.Context(), userFromContext(r.Context()), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
