// Package progress holds the learner-level streak rule. The streak spans all
// topics and has no time decay; only answer correctness moves it.
package progress

import "github.com/example/mathtrainer/internal/models"

// Apply updates a learner's streak counters from one answer. BestStreak never
// decreases, so best >= current holds after every call.
func Apply(learner models.Learner, correct bool) models.Learner {
	if correct {
		learner.CurrentStreak++
		if learner.CurrentStreak > learner.BestStreak {
			learner.BestStreak = learner.CurrentStreak
		}
	} else {
		learner.CurrentStreak = 0
	}
	return learner
}
