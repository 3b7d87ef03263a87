package trust

import "jobtrust-backend/internal/model"

// Badge thresholds.
const (
	verifiedMinScore     = 80
	verifiedMinReviews   = 3
	responsiveMinCount   = 2
	responsiveMinRatio   = 0.3
	scamWarningScore     = 30
	unresponsiveMinCount = 3
	unresponsiveMinRatio = 0.5
)

// DeriveBadges computes the full badge set for a posting from its score,
// review count and raw counters. The caller replaces the stored badges
// wholesale with the result; badges are never added or removed one at a
// time. Multiple badges may coexist.
func DeriveBadges(score int, reviewCount int, c Counters) []string {
	badges := []string{}

	if score >= verifiedMinScore && reviewCount >= verifiedMinReviews {
		badges = append(badges, model.BadgeVerified)
	}

	if reviewCount > 0 {
		responseRatio := float64(c.ResponseConfirmations) / float64(reviewCount)
		if c.ResponseConfirmations >= responsiveMinCount && responseRatio > responsiveMinRatio {
			badges = append(badges, model.BadgeResponsive)
		}
	}

	// Either condition alone is enough for the warning.
	if c.ScamReports > 0 || score < scamWarningScore {
		badges = append(badges, model.BadgeScamWarning)
	}

	if reviewCount > 0 {
		noResponseRatio := float64(c.NoResponseReports) / float64(reviewCount)
		if c.NoResponseReports > unresponsiveMinCount && noResponseRatio > unresponsiveMinRatio {
			badges = append(badges, model.BadgeUnresponsive)
		}
	}

	return badges
}
