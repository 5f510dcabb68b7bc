package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/memorymatch/internal/deck"
	"github.com/vytor/memorymatch/internal/errors"
	"github.com/vytor/memorymatch/internal/logger"
)

type startGameRequest struct {
	ThemeID int64  `json:"theme_id"`
	Grid    string `json:"grid"`
}

type flipRequest struct {
	Position *int `json:"position"`
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req startGameRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.ThemeID <= 0 {
		handleError(w, r, errors.NewValidationError("theme_id", "is required"))
		return
	}

	grid := s.DefaultGrid
	if req.Grid != "" {
		g, err := deck.ParseGrid(req.Grid)
		if err != nil {
			handleError(w, r, err)
			return
		}
		grid = g
	}

	var userID int64
	if user := userFromContext(r.Context()); user != nil {
		userID = user.ID
	}

	view, err := s.GameService.Start(r.Context(), userID, req.ThemeID, grid)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Info("game %s started on theme %d (%s)", view.ID, req.ThemeID, grid)
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	view, err := s.GameService.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	var req flipRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Position == nil {
		handleError(w, r, errors.NewValidationError("position", "is required"))
		return
	}

	result, err := s.GameService.Flip(r.Context(), chi.URLParam(r, "id"), *req.Position)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRestartGame(w http.ResponseWriter, r *http.Request) {
	view, err := s.GameService.Restart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAbandonGame(w http.ResponseWriter, r *http.Request) {
	if err := s.GameService.Abandon(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGameClock streams elapsed seconds as server-sent events until the
// game finishes or is abandoned, or the client goes away. After a restart
// the stream keeps going from the new deal's origin; a stream that ended on
// a finished game must be reopened.
func (s *Server) handleGameClock(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		handleError(w, r, errors.NewBadRequestError("streaming unsupported"))
		return
	}

	ticks, err := s.GameService.Clock(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	log.Debug("clock stream opened for game %s", id)
	for elapsed := range ticks {
		if _, err := fmt.Fprintf(w, "event: tick\ndata: {\"elapsed_seconds\":%d}\n\n", elapsed); err != nil {
			log.Debug("clock stream write failed: %v", err)
			return
		}
		flusher.Flush()
	}
	_, _ = fmt.Fprint(w, "event: end\ndata: {}\n\n")
	flusher.Flush()
	log.Debug("clock stream closed for game %s", id)
}
