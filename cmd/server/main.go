package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/mathtrainer/internal/api"
	"github.com/example/mathtrainer/internal/config"
	"github.com/example/mathtrainer/internal/db"
	"github.com/example/mathtrainer/internal/logger"
	"github.com/example/mathtrainer/internal/question"
	"github.com/example/mathtrainer/internal/repository/sqlite"
	"github.com/example/mathtrainer/internal/services"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer log.Sync()
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Errorf("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("mathtrainer server starting")
	log.Debugf("addr=%s db_path=%s log_level=%s due_limit=%d answer_retries=%d",
		cfg.Addr, cfg.DBPath, cfg.LogLevel, cfg.DueLimit, cfg.AnswerRetries)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Errorf("failed to open database: %v", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.Seed(context.Background(), cfg.DefaultLearners); err != nil {
		log.Errorf("failed to seed default learners: %v", err)
		os.Exit(1)
	}

	cardRepo := sqlite.NewCardRepository(database.DB)
	learnerRepo := sqlite.NewLearnerRepository(database.DB)
	questionRepo := sqlite.NewQuestionRepository(database.DB)
	answerRepo := sqlite.NewAnswerRepository(database.DB)

	schedulerService := services.NewSchedulerService(cardRepo, cfg.AnswerRetries)
	progressService := services.NewProgressService(learnerRepo, cardRepo, answerRepo, schedulerService, cfg.RecentAnswers)
	practiceService := services.NewPracticeService(learnerRepo, questionRepo, answerRepo,
		schedulerService, progressService, question.NewGenerator())
	learnerService := services.NewLearnerService(learnerRepo)

	srv := &api.Server{
		DB:              database.DB,
		LearnerService:  learnerService,
		PracticeService: practiceService,
		ProgressService: progressService,
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Infof("received signal %v, shutting down", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	log.Info("mathtrainer server stopped")
}
