package models

import "time"

type Learner struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	CurrentStreak int       `json:"current_streak"`
	BestStreak    int       `json:"best_streak"`
	CreatedAt     time.Time `json:"created_at"`
}
