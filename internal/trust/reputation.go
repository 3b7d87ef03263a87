package trust

import "jobtrust-backend/internal/model"

// Reputation components. Placeholder contract: reputation currently rewards
// profile completeness only. Whatever replaces it must stay deterministic
// for a given profile, idempotent, and capped to [0,100].
const (
	reputationBase          = 10.0
	reputationEmailVerified = 10.0
	reputationFullName      = 5.0
)

// ProfileReputation recomputes a user's reputation score from profile
// signals.
func ProfileReputation(user model.User) float64 {
	score := reputationBase

	if user.IsEmailVerified {
		score += reputationEmailVerified
	}
	if user.FirstName != "" && user.LastName != "" {
		score += reputationFullName
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
