package api

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/example/mathtrainer/internal/errors"
	"github.com/example/mathtrainer/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		appErr = apperrors.NewInternalError(err)
	}

	if appErr.Status >= 500 {
		log.Errorf("server error: %v", appErr)
	} else {
		log.Warnf("client error: %v", appErr)
	}

	writeJSON(w, appErr.Status, map[string]any{
		"error": map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
