package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/mathtrainer/internal/services"
)

type Server struct {
	DB              *sql.DB
	LearnerService  services.LearnerService
	PracticeService services.PracticeService
	ProgressService services.ProgressService
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/topics", s.handleTopics)
		r.Get("/learners", s.handleListLearners)
		r.Post("/learners", s.handleCreateLearner)
		r.Get("/learners/{id}/next", s.handleNextQuestion)
		r.Post("/learners/{id}/answers", s.handleSubmitAnswer)
		r.Get("/learners/{id}/progress", s.handleProgress)
	})

	return r
}
