package trust

import "jobtrust-backend/internal/model"

// AdminWeight is the fixed scoring weight of admin submitters.
const AdminWeight = 10.0

// Tier multipliers applied after the reputation term.
const (
	tierFactorEnterprise = 1.5
	tierFactorPro        = 1.2
	tierFactorFree       = 1.0
)

// SubmitterWeight derives a user's scoring weight from role, reputation and
// tier. Admins short-circuit to AdminWeight; no other factor applies to them.
// For everyone else the reputation term is added first and the tier factor
// multiplied second; the order matters for reproducibility since historic
// feedback rows freeze this value at creation time.
func SubmitterWeight(user model.User) float64 {
	if user.Role == model.RoleAdmin {
		return AdminWeight
	}

	weight := 1.0 + user.ReputationScore/100

	switch user.Tier {
	case model.TierEnterprise:
		weight *= tierFactorEnterprise
	case model.TierPro:
		weight *= tierFactorPro
	default:
		weight *= tierFactorFree
	}

	return weight
}
