package trust

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jobtrust-backend/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func makeFeedback(feedbackType string, ageDays int, weight float64, now time.Time) model.Feedback {
	return model.Feedback{
		FeedbackType:         feedbackType,
		IsReal:               true,
		UserWeightAtCreation: weight,
		CreatedAt:            now.AddDate(0, 0, -ageDays),
	}
}

func TestAggregateScore_EmptySetIsNeutral(t *testing.T) {
	score, counters := AggregateScore(nil, time.Now())
	assert.Equal(t, model.NeutralScore, score)
	assert.Equal(t, Counters{}, counters)
}

func TestAggregateScore_DecayTiers(t *testing.T) {
	// 3 interview feedbacks aged 10/100/200 days, each weight 1.0:
	// decay 1.0/0.5/0.1, impact 100 each -> 160/1.6 = 100
	now := time.Now()
	rows := []model.Feedback{
		makeFeedback(model.FeedbackInterview, 10, 1.0, now),
		makeFeedback(model.FeedbackInterview, 100, 1.0, now),
		makeFeedback(model.FeedbackInterview, 200, 1.0, now),
	}

	score, counters := AggregateScore(rows, now)
	assert.Equal(t, 100, score)
	assert.Equal(t, 3, counters.InterviewConfirmations)

	badges := DeriveBadges(score, len(rows), counters)
	assert.Contains(t, badges, model.BadgeVerified)
}

func TestAggregateScore_WeightedMean(t *testing.T) {
	now := time.Now()
	rows := []model.Feedback{
		makeFeedback(model.FeedbackHired, 1, 1.0, now),  // 100
		makeFeedback(model.FeedbackGhosted, 1, 1.0, now), // 40
	}

	score, _ := AggregateScore(rows, now)
	assert.Equal(t, 70, score)
}

func TestAggregateScore_ScoreAlwaysInRange(t *testing.T) {
	now := time.Now()
	types := []string{
		model.FeedbackResponse, model.FeedbackInterview, model.FeedbackScam,
		model.FeedbackExpired, model.FeedbackHired, model.FeedbackGhosted,
		model.FeedbackRejected, model.FeedbackPaymentRequired,
	}

	var rows []model.Feedback
	for i, ft := range types {
		rows = append(rows, makeFeedback(ft, i*40, 1.0+float64(i)/4, now))
		score, _ := AggregateScore(rows, now)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestAggregateScore_Idempotent(t *testing.T) {
	now := time.Now()
	rows := []model.Feedback{
		makeFeedback(model.FeedbackResponse, 5, 1.2, now),
		makeFeedback(model.FeedbackScam, 95, 2.0, now),
		makeFeedback(model.FeedbackRejected, 300, 1.0, now),
	}

	score1, counters1 := AggregateScore(rows, now)
	score2, counters2 := AggregateScore(rows, now)
	assert.Equal(t, score1, score2)
	assert.Equal(t, counters1, counters2)
	assert.Equal(t,
		DeriveBadges(score1, len(rows), counters1),
		DeriveBadges(score2, len(rows), counters2))
}

func TestAggregateScore_NotRealForcesZeroImpact(t *testing.T) {
	now := time.Now()
	fake := makeFeedback(model.FeedbackHired, 1, 1.0, now)
	fake.IsReal = false

	score, _ := AggregateScore([]model.Feedback{fake}, now)
	assert.Equal(t, 0, score)
}

func TestAggregateScore_AskedForMoneyForcesZeroImpact(t *testing.T) {
	now := time.Now()
	paid := makeFeedback(model.FeedbackInterview, 1, 1.0, now)
	paid.AskedForMoney = boolPtr(true)

	score, _ := AggregateScore([]model.Feedback{paid}, now)
	assert.Equal(t, 0, score)
}

func TestAggregateScore_UnmappedTypeContributesZero(t *testing.T) {
	now := time.Now()
	rows := []model.Feedback{makeFeedback("something_else", 1, 1.0, now)}

	score, _ := AggregateScore(rows, now)
	assert.Equal(t, 0, score)
}

func TestAggregateScore_ZeroTotalWeightIsNeutral(t *testing.T) {
	now := time.Now()
	rows := []model.Feedback{makeFeedback(model.FeedbackHired, 1, 0, now)}

	score, _ := AggregateScore(rows, now)
	assert.Equal(t, model.NeutralScore, score)
}

func TestTimeDecay_TierBoundaries(t *testing.T) {
	day := 24 * time.Hour
	assert.Equal(t, 1.0, timeDecay(0))
	assert.Equal(t, 1.0, timeDecay(90*day))
	assert.Equal(t, 0.5, timeDecay(90*day+time.Hour))
	assert.Equal(t, 0.5, timeDecay(180*day))
	assert.Equal(t, 0.1, timeDecay(180*day+time.Hour))
}

func TestDeriveBadges_Verified(t *testing.T) {
	badges := DeriveBadges(80, 3, Counters{})
	assert.Contains(t, badges, model.BadgeVerified)

	// Either leg of the threshold missing drops the badge
	assert.NotContains(t, DeriveBadges(79, 3, Counters{}), model.BadgeVerified)
	assert.NotContains(t, DeriveBadges(80, 2, Counters{}), model.BadgeVerified)
}

func TestDeriveBadges_Responsive(t *testing.T) {
	badges := DeriveBadges(70, 5, Counters{ResponseConfirmations: 2})
	assert.Contains(t, badges, model.BadgeResponsive)

	// Ratio 2/7 <= 0.3 fails even with enough confirmations
	badges = DeriveBadges(70, 7, Counters{ResponseConfirmations: 2})
	assert.NotContains(t, badges, model.BadgeResponsive)

	// Single confirmation is never enough
	badges = DeriveBadges(70, 2, Counters{ResponseConfirmations: 1})
	assert.NotContains(t, badges, model.BadgeResponsive)
}

func TestDeriveBadges_ScamWarningEitherCondition(t *testing.T) {
	// One scam report alone
	assert.Contains(t, DeriveBadges(90, 10, Counters{ScamReports: 1}), model.BadgeScamWarning)
	// Low score alone
	assert.Contains(t, DeriveBadges(29, 10, Counters{}), model.BadgeScamWarning)
	// Neither
	assert.NotContains(t, DeriveBadges(30, 10, Counters{}), model.BadgeScamWarning)
}

func TestDeriveBadges_Unresponsive(t *testing.T) {
	badges := DeriveBadges(40, 7, Counters{NoResponseReports: 4})
	assert.Contains(t, badges, model.BadgeUnresponsive)

	// Exactly 3 reports is not enough
	assert.NotContains(t, DeriveBadges(40, 5, Counters{NoResponseReports: 3}), model.BadgeUnresponsive)

	// Ratio at or below 0.5 is not enough
	assert.NotContains(t, DeriveBadges(40, 8, Counters{NoResponseReports: 4}), model.BadgeUnresponsive)
}

func TestDeriveBadges_MultipleBadgesCoexist(t *testing.T) {
	badges := DeriveBadges(85, 10, Counters{ScamReports: 1, ResponseConfirmations: 4})
	assert.Contains(t, badges, model.BadgeVerified)
	assert.Contains(t, badges, model.BadgeResponsive)
	assert.Contains(t, badges, model.BadgeScamWarning)
}
