package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vytor/memorymatch/internal/logger"
)

// handleHealth is the liveness probe and always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 503 until the database answers a ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := s.checkDatabase(r.Context()); err != nil {
		log.Warn("readiness check failed - database: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("Database unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Ready"))
}

func (s *Server) checkDatabase(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.DB.PingContext(ctx)
}
