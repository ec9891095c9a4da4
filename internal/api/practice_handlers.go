package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	apperrors "github.com/example/mathtrainer/internal/errors"
	"github.com/example/mathtrainer/internal/logger"
	"github.com/example/mathtrainer/internal/services"
	"github.com/example/mathtrainer/internal/topic"
)

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	type topicView struct {
		Operation topic.Operation `json:"operation"`
		Level     topic.Level     `json:"level"`
		Label     string          `json:"label"`
	}
	all := topic.All()
	views := make([]topicView, 0, len(all))
	for _, t := range all {
		views = append(views, topicView{Operation: t.Operation, Level: t.Level, Label: t.Label()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"topics": views})
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	learnerID, err := learnerIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var level *topic.Level
	if raw := r.URL.Query().Get("level"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			handleError(w, r, apperrors.NewInvalidTopicError("level must be an integer"))
			return
		}
		l := topic.Level(n)
		level = &l
	}

	item, err := s.PracticeService.NextQuestion(r.Context(), learnerID, level)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if item == nil {
		log.Debugf("nothing due: learner_id=%d", learnerID)
		writeJSON(w, http.StatusOK, map[string]any{"due": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"due":           true,
		"question_id":   item.Question.ID,
		"question_text": item.Question.QuestionText,
		"topic":         item.Question.Topic(),
		"topic_label":   item.Question.Topic().Label(),
		"box_number":    item.Card.BoxNumber,
	})
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	learnerID, err := learnerIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var body struct {
		QuestionID  int64  `json:"question_id"`
		Answer      string `json:"answer"`
		TimeTakenMS *int   `json:"time_taken_ms"`
		SessionID   string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handleError(w, r, apperrors.NewValidationError("body", "invalid JSON"))
		return
	}
	if body.QuestionID == 0 {
		handleError(w, r, apperrors.NewValidationError("question_id", "required"))
		return
	}

	result, err := s.PracticeService.SubmitAnswer(r.Context(), learnerID, services.Submission{
		QuestionID:  body.QuestionID,
		RawAnswer:   body.Answer,
		TimeTakenMS: body.TimeTakenMS,
		SessionID:   body.SessionID,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	learnerID, err := learnerIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	report, err := s.ProgressService.GetProgress(r.Context(), learnerID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
