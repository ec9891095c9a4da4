package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBPath          string
	LogLevel        string
	LogFile         string
	DefaultLearners []string
	DueLimit        int
	AnswerRetries   int
	RecentAnswers   int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8080"),
		DBPath:          envOr("DB_PATH", "file:mathtrainer.db"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		LogFile:         envOr("LOG_FILE", ""),
		DefaultLearners: envListOr("DEFAULT_LEARNERS", []string{"Arthur", "Lena", "Marco", "Susanne"}),
		DueLimit:        envIntOr("DUE_LIMIT", 50),
		AnswerRetries:   envIntOr("ANSWER_RETRIES", 3),
		RecentAnswers:   envIntOr("RECENT_ANSWERS", 20),
	}
}

// Validate checks the configuration, collecting every problem into one error.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.DueLimit <= 0 {
		problems = append(problems, "DUE_LIMIT must be positive")
	}
	if c.AnswerRetries <= 0 {
		problems = append(problems, "ANSWER_RETRIES must be positive")
	}
	if c.RecentAnswers < 0 {
		problems = append(problems, "RECENT_ANSWERS cannot be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
