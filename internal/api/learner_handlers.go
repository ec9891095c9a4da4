package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/example/mathtrainer/internal/errors"
	"github.com/example/mathtrainer/internal/logger"
)

func (s *Server) handleListLearners(w http.ResponseWriter, r *http.Request) {
	learners, err := s.LearnerService.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"learners": learners})
}

func (s *Server) handleCreateLearner(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handleError(w, r, apperrors.NewValidationError("body", "invalid JSON"))
		return
	}

	name := strings.TrimSpace(body.Name)
	learner, err := s.LearnerService.Create(r.Context(), name)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Infof("learner created: id=%d, name=%s", learner.ID, learner.Name)
	writeJSON(w, http.StatusCreated, learner)
}

// learnerIDParam parses the {id} URL parameter.
func learnerIDParam(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("id", "must be an integer")
	}
	return id, nil
}
