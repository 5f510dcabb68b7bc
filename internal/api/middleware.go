package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/vytor/memorymatch/internal/logger"
	"github.com/vytor/memorymatch/internal/models"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// Flush lets event streams pass through the wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

type contextKey string

const (
	userContextKey    contextKey = "user"
	sessionCookieName            = "session_token"
)

func userFromContext(ctx context.Context) *models.User {
	if v := ctx.Value(userContextKey); v != nil {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// userMiddleware attaches the logged-in user, if any. Requests without a
// valid session continue as guests.
func (s *Server) userMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromContext(r.Context())
		user, err := s.UserService.UserForToken(r.Context(), cookie.Value)
		if err != nil {
			log.Error("failed to resolve session: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if user == nil {
			log.Debug("stale session cookie, clearing")
			clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = logger.NewContext(ctx, log.WithField("user_id", user.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:    sessionCookieName,
		Value:   "",
		Path:    "/",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
	})
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// generateRequestID creates a random request ID.
func generateRequestID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// loggingMiddleware logs HTTP requests with timing, status codes, and request IDs.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}

		log := logger.Default().WithFields(map[string]any{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		if r.RemoteAddr != "" {
			log = log.WithField("remote_addr", r.RemoteAddr)
		}

		r = r.WithContext(logger.NewContext(r.Context(), log))
		w.Header().Set("X-Request-ID", requestID)

		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		log.Debug("request started")
		next.ServeHTTP(wrapped, r)

		log = log.WithFields(map[string]any{
			"status":      wrapped.status,
			"size":        wrapped.size,
			"duration_ms": time.Since(start).Milliseconds(),
		})

		if wrapped.status >= 500 {
			log.Error("request completed with server error")
		} else if wrapped.status >= 400 {
			log.Warn("request completed with client error")
		} else {
			log.Info("request completed")
		}
	})
}

// recoveryMiddleware recovers from panics and logs them.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log := logger.FromContext(r.Context())
				log.Error("panic recovered: %v", rec)
				writeJSON(w, http.StatusInternalServerError, errorBody("INTERNAL_ERROR", "internal server error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// securityHeadersMiddleware adds security headers to responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// timeoutMiddleware wraps a handler with a timeout.
func timeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, `{"error":{"code":"TIMEOUT","message":"request timeout"}}`)
	}
}
