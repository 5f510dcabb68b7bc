package api

import (
	"encoding/json"
	"net/http"

	"github.com/vytor/memorymatch/internal/errors"
	"github.com/vytor/memorymatch/internal/logger"
)

func errorBody(code, message string) map[string]any {
	return map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	}
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.NewInternalError(err)
	}

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	writeJSON(w, appErr.Status, errorBody(appErr.Code, appErr.Message))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return nil
}
