package trust

import (
	"math"
	"time"

	"jobtrust-backend/internal/model"
)

// Time-decay tiers. Three discrete steps, not a continuous curve.
const (
	freshAge = 90 * 24 * time.Hour
	staleAge = 180 * 24 * time.Hour

	decayFresh = 1.0
	decayStale = 0.5
	decayOld   = 0.1
)

// Counters holds raw, unweighted per-type tallies over a posting's entire
// feedback history. Badge thresholds read these; age and weight are ignored
// here on purpose.
type Counters struct {
	ScamReports            int
	InterviewConfirmations int
	ResponseConfirmations  int
	NoResponseReports      int
}

// baseImpact maps a feedback type to its 0-100 impact before overrides.
// Unmapped types contribute 0.
func baseImpact(feedbackType string) float64 {
	switch feedbackType {
	case model.FeedbackHired, model.FeedbackInterview:
		return 100
	case model.FeedbackResponse:
		return 80
	case model.FeedbackRejected:
		return 70
	case model.FeedbackGhosted, model.FeedbackExpired:
		return 40
	case model.FeedbackPaymentRequired, model.FeedbackScam:
		return 0
	default:
		return 0
	}
}

// rowImpact applies the terminal overrides on top of the type-based base:
// a posting reported as not real, or one that asked for money, contributes
// zero no matter what type the row carries. Nothing may raise it back.
func rowImpact(f model.Feedback) float64 {
	impact := baseImpact(f.FeedbackType)
	if !f.IsReal {
		impact = 0
	}
	if f.AskedForMoney != nil && *f.AskedForMoney {
		impact = 0
	}
	return impact
}

// timeDecay returns the decay factor for a feedback row of the given age.
func timeDecay(age time.Duration) float64 {
	switch {
	case age <= freshAge:
		return decayFresh
	case age <= staleAge:
		return decayStale
	default:
		return decayOld
	}
}

// AggregateScore computes the authenticity score of one posting from its
// full current feedback set. Each row contributes its impact weighted by
// timeDecay(age) x the submitter weight frozen at creation; the result is
// the rounded weighted mean (half-up, the mean is never negative). An empty
// set, or one whose total weight is zero, yields the neutral score.
//
// This is a plain weighted-mean estimator; small-sample protection lives in
// the badge thresholds, not in the score itself.
func AggregateScore(rows []model.Feedback, now time.Time) (int, Counters) {
	var counters Counters

	if len(rows) == 0 {
		return model.NeutralScore, counters
	}

	var weightedSum, totalWeight float64
	for _, f := range rows {
		switch f.FeedbackType {
		case model.FeedbackScam:
			counters.ScamReports++
		case model.FeedbackInterview:
			counters.InterviewConfirmations++
		case model.FeedbackResponse:
			counters.ResponseConfirmations++
		case model.FeedbackGhosted:
			counters.NoResponseReports++
		}

		weight := timeDecay(now.Sub(f.CreatedAt)) * f.UserWeightAtCreation
		weightedSum += rowImpact(f) * weight
		totalWeight += weight
	}

	if totalWeight <= 0 {
		return model.NeutralScore, counters
	}

	return int(math.Round(weightedSum / totalWeight)), counters
}
