package trust

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"jobtrust-backend/internal/database"
	"jobtrust-backend/internal/model"
)

var (
	testDB *database.DBinstanceStruct
	engine *Engine
)

func TestMain(m *testing.M) {
	var err error
	var trustTeardown func(context.Context, ...testcontainers.TerminateOption) error
	trustTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	engine = NewEngine(testDB)
	code := m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if trustTeardown != nil {
		_ = trustTeardown(ctx)
	}
	os.Exit(code)
}

// createTestUser inserts a fresh user so tests don't trample the shared
// seeded fixtures' reputation.
func createTestUser(t *testing.T, tier string) model.User {
	t.Helper()
	email := fmt.Sprintf("%s@test.example.com", uuid.NewString()[:8])
	user := model.User{
		ID:              uuid.New(),
		Username:        "trust_" + uuid.NewString()[:8],
		Email:           &email,
		Password:        "not-a-real-hash",
		Role:            model.RoleUser,
		Tier:            tier,
		FirstName:       "Test",
		LastName:        "Submitter",
		IsEmailVerified: true,
	}
	require.NoError(t, testDB.Create(&user).Error)
	return user
}

func createTestPosting(t *testing.T) model.JobPosting {
	t.Helper()
	posting := model.JobPosting{
		EditableJobPostingInfo: model.EditableJobPostingInfo{
			Title:    "Test Role " + uuid.NewString()[:8],
			Company:  "Test Co",
			Location: "Remote",
			Country:  "TH",
			URL:      "https://jobs.test.example.com/" + uuid.NewString(),
		},
		Source:            model.SourceScraper,
		Status:            model.StatusApproved,
		AuthenticityScore: model.NeutralScore,
		TrustBadges:       []string{},
	}
	require.NoError(t, testDB.Create(&posting).Error)
	return posting
}

func reloadPosting(t *testing.T, id uint) model.JobPosting {
	t.Helper()
	var posting model.JobPosting
	require.NoError(t, testDB.First(&posting, id).Error)
	return posting
}

func TestSubmitFeedback_DirectPosting(t *testing.T) {
	user := createTestUser(t, model.TierPro)
	posting := createTestPosting(t)

	fb, err := engine.SubmitFeedback(user, SubmitInput{
		JobPostingID: &posting.ID,
		FeedbackType: model.FeedbackHired,
		IsReal:       true,
	})
	require.NoError(t, err)
	assert.NotZero(t, fb.ID)
	assert.Equal(t, posting.ID, fb.JobPostingID)
	assert.Equal(t, user.ID, fb.UserID)
	assert.InDelta(t, SubmitterWeight(user), fb.UserWeightAtCreation, 1e-9)

	// Score is visible immediately after the submit returns
	got := reloadPosting(t, posting.ID)
	assert.Equal(t, 100, got.AuthenticityScore)
	assert.Equal(t, 1, got.ReviewCount)
	assert.NotNil(t, got.LastReviewDate)
	assert.Empty(t, []string(got.TrustBadges))

	// The submitter's reputation was refreshed as part of the same call
	var submitter model.User
	require.NoError(t, testDB.First(&submitter, "id = ?", user.ID).Error)
	assert.Equal(t, ProfileReputation(user), submitter.ReputationScore)
}

func TestSubmitFeedback_DuplicateRejected(t *testing.T) {
	user := createTestUser(t, model.TierFree)
	posting := createTestPosting(t)

	_, err := engine.SubmitFeedback(user, SubmitInput{
		JobPostingID: &posting.ID,
		FeedbackType: model.FeedbackResponse,
		IsReal:       true,
	})
	require.NoError(t, err)

	_, err = engine.SubmitFeedback(user, SubmitInput{
		JobPostingID: &posting.ID,
		FeedbackType: model.FeedbackGhosted,
		IsReal:       true,
	})
	assert.ErrorIs(t, err, ErrDuplicateFeedback)

	// The duplicate left no trace: one row, score from the first submission
	got := reloadPosting(t, posting.ID)
	assert.Equal(t, 1, got.ReviewCount)
	assert.Equal(t, 80, got.AuthenticityScore)
}

func TestSubmitFeedback_ValidationErrors(t *testing.T) {
	user := createTestUser(t, model.TierFree)
	posting := createTestPosting(t)

	_, err := engine.SubmitFeedback(user, SubmitInput{
		JobPostingID: &posting.ID,
		FeedbackType: "glowing_review",
		IsReal:       true,
	})
	assert.ErrorIs(t, err, ErrValidation)

	longComment := strings.Repeat("a", model.MaxCommentLength+1)
	_, err = engine.SubmitFeedback(user, SubmitInput{
		JobPostingID: &posting.ID,
		FeedbackType: model.FeedbackHired,
		IsReal:       true,
		Comment:      &longComment,
	})
	assert.ErrorIs(t, err, ErrValidation)

	// Multi-byte runes above the limit are rejected too
	longRunes := strings.Repeat("ก", model.MaxCommentLength+1)
	_, err = engine.SubmitFeedback(user, SubmitInput{
		JobPostingID: &posting.ID,
		FeedbackType: model.FeedbackHired,
		IsReal:       true,
		Comment:      &longRunes,
	})
	assert.ErrorIs(t, err, ErrValidation)

	// Neither posting nor application identifies the job
	_, err = engine.SubmitFeedback(user, SubmitInput{
		FeedbackType: model.FeedbackHired,
		IsReal:       true,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitFeedback_CommentLimitCountsRunes(t *testing.T) {
	user := createTestUser(t, model.TierFree)
	posting := createTestPosting(t)

	// Exactly 500 multi-byte characters is within the limit even though
	// the byte length is far larger
	comment := strings.Repeat("ก", model.MaxCommentLength)
	require.Greater(t, len(comment), model.MaxCommentLength)

	fb, err := engine.SubmitFeedback(user, SubmitInput{
		JobPostingID: &posting.ID,
		FeedbackType: model.FeedbackHired,
		IsReal:       true,
		Comment:      &comment,
	})
	require.NoError(t, err)
	require.NotNil(t, fb.Comment)
	assert.Equal(t, comment, *fb.Comment)
}

func TestSubmitFeedback_UnknownTargets(t *testing.T) {
	user := createTestUser(t, model.TierFree)

	missingPosting := uint(999999)
	_, err := engine.SubmitFeedback(user, SubmitInput{
		JobPostingID: &missingPosting,
		FeedbackType: model.FeedbackHired,
		IsReal:       true,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	missingApp := uint(999999)
	_, err = engine.SubmitFeedback(user, SubmitInput{
		JobApplicationID: &missingApp,
		FeedbackType:     model.FeedbackHired,
		IsReal:           true,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitFeedback_ApplicationWithoutTarget(t *testing.T) {
	_, err := engine.SubmitFeedback(database.TestUserPro, SubmitInput{
		JobApplicationID: &database.TestAppEmpty.ID,
		FeedbackType:     model.FeedbackGhosted,
		IsReal:           true,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitFeedback_ViaLinkedApplication(t *testing.T) {
	fb, err := engine.SubmitFeedback(database.TestUserFree, SubmitInput{
		JobApplicationID: &database.TestAppLinked.ID,
		FeedbackType:     model.FeedbackInterview,
		IsReal:           true,
	})
	require.NoError(t, err)
	assert.Equal(t, database.TestPosting1.ID, fb.JobPostingID)
}

func TestSubmitFeedback_SharedURLSingleShadowPosting(t *testing.T) {
	fb1, err := engine.SubmitFeedback(database.TestUserFree, SubmitInput{
		JobApplicationID: &database.TestAppURLOnly1.ID,
		FeedbackType:     model.FeedbackResponse,
		IsReal:           true,
	})
	require.NoError(t, err)

	fb2, err := engine.SubmitFeedback(database.TestUserPro, SubmitInput{
		JobApplicationID: &database.TestAppURLOnly2.ID,
		FeedbackType:     model.FeedbackInterview,
		IsReal:           true,
	})
	require.NoError(t, err)

	// Both submissions resolve to one shadow posting for the shared URL
	assert.Equal(t, fb1.JobPostingID, fb2.JobPostingID)

	shadow := reloadPosting(t, fb1.JobPostingID)
	assert.Equal(t, CanonicalJobURL(database.TestSharedJobURL), shadow.URL)
	assert.Equal(t, model.SourceUser, shadow.Source)
	assert.Equal(t, model.StatusApproved, shadow.Status)
	require.NotNil(t, shadow.OwnerUserID)
	assert.Equal(t, database.TestUserFree.ID, *shadow.OwnerUserID)
	assert.Equal(t, 2, shadow.ReviewCount)

	// Both applications were back-linked to the shadow posting
	for _, appID := range []uint{database.TestAppURLOnly1.ID, database.TestAppURLOnly2.ID} {
		var app model.JobApplication
		require.NoError(t, testDB.First(&app, appID).Error)
		require.NotNil(t, app.JobPostingID)
		assert.Equal(t, fb1.JobPostingID, *app.JobPostingID)
	}
}

func TestCreateShadowPosting_ConvergesOnExistingURL(t *testing.T) {
	user := createTestUser(t, model.TierFree)
	canonical := "https://jobs.test.example.com/race-" + uuid.NewString()

	existing := model.JobPosting{
		EditableJobPostingInfo: model.EditableJobPostingInfo{
			Title:   "Race Role",
			Company: "Test Co",
			URL:     canonical,
		},
		Source:            model.SourceUser,
		Status:            model.StatusApproved,
		AuthenticityScore: model.NeutralScore,
		TrustBadges:       []string{},
	}
	require.NoError(t, testDB.Create(&existing).Error)

	jobURL := canonical
	app := model.JobApplication{
		UserID:      user.ID,
		JobURL:      &jobURL,
		JobTitle:    "Race Role",
		CompanyName: "Test Co",
	}
	require.NoError(t, testDB.Create(&app).Error)

	// A submission that missed the lookup and went straight to creation
	// still converges on the posting that already owns the URL
	postingID, err := engine.createShadowPosting(user, &app, canonical)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, postingID)

	var got model.JobApplication
	require.NoError(t, testDB.First(&got, app.ID).Error)
	require.NotNil(t, got.JobPostingID)
	assert.Equal(t, existing.ID, *got.JobPostingID)

	// No second posting was created for the URL
	var count int64
	require.NoError(t, testDB.Model(&model.JobPosting{}).
		Where("url = ?", canonical).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubmitFeedback_ScamDrivesWarningBadge(t *testing.T) {
	user := createTestUser(t, model.TierFree)
	posting := createTestPosting(t)

	askedForMoney := true
	_, err := engine.SubmitFeedback(user, SubmitInput{
		JobPostingID:  &posting.ID,
		FeedbackType:  model.FeedbackScam,
		IsReal:        false,
		AskedForMoney: &askedForMoney,
	})
	require.NoError(t, err)

	got := reloadPosting(t, posting.ID)
	assert.Equal(t, 0, got.AuthenticityScore)
	assert.Contains(t, []string(got.TrustBadges), model.BadgeScamWarning)
}

func TestRecomputeJobScore_LockedPostingUntouched(t *testing.T) {
	user := createTestUser(t, model.TierFree)
	posting := createTestPosting(t)

	require.NoError(t, testDB.Model(&model.JobPosting{}).
		Where("id = ?", posting.ID).
		Update("is_locked", true).Error)

	// Feedback still lands, but the derived columns stay frozen
	_, err := engine.SubmitFeedback(user, SubmitInput{
		JobPostingID: &posting.ID,
		FeedbackType: model.FeedbackScam,
		IsReal:       false,
	})
	require.NoError(t, err)

	got := reloadPosting(t, posting.ID)
	assert.Equal(t, model.NeutralScore, got.AuthenticityScore)
	assert.Equal(t, 0, got.ReviewCount)
	assert.Nil(t, got.LastReviewDate)
}

func TestRecomputeJobScore_EmptySetResets(t *testing.T) {
	posting := createTestPosting(t)

	now := time.Now()
	require.NoError(t, testDB.Model(&model.JobPosting{}).
		Where("id = ?", posting.ID).
		Updates(map[string]interface{}{
			"authenticity_score": 92,
			"trust_badges":       pq.StringArray{model.BadgeVerified},
			"review_count":       7,
			"last_review_date":   &now,
		}).Error)

	require.NoError(t, engine.RecomputeJobScore(posting.ID))

	got := reloadPosting(t, posting.ID)
	assert.Equal(t, model.NeutralScore, got.AuthenticityScore)
	assert.Empty(t, []string(got.TrustBadges))
	assert.Equal(t, 0, got.ReviewCount)
	assert.Nil(t, got.LastReviewDate)
}

func TestRecomputeJobScore_Idempotent(t *testing.T) {
	user := createTestUser(t, model.TierEnterprise)
	posting := createTestPosting(t)

	_, err := engine.SubmitFeedback(user, SubmitInput{
		JobPostingID: &posting.ID,
		FeedbackType: model.FeedbackRejected,
		IsReal:       true,
	})
	require.NoError(t, err)

	first := reloadPosting(t, posting.ID)
	require.NoError(t, engine.RecomputeJobScore(posting.ID))
	second := reloadPosting(t, posting.ID)

	assert.Equal(t, first.AuthenticityScore, second.AuthenticityScore)
	assert.Equal(t, []string(first.TrustBadges), []string(second.TrustBadges))
	assert.Equal(t, first.ReviewCount, second.ReviewCount)
}

func TestRecomputeJobScore_UnknownPosting(t *testing.T) {
	assert.ErrorIs(t, engine.RecomputeJobScore(999999), ErrNotFound)
}

func TestRescoreAll(t *testing.T) {
	user := createTestUser(t, model.TierFree)
	posting := createTestPosting(t)

	_, err := engine.SubmitFeedback(user, SubmitInput{
		JobPostingID: &posting.ID,
		FeedbackType: model.FeedbackHired,
		IsReal:       true,
	})
	require.NoError(t, err)

	rescored, err := engine.RescoreAll()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rescored, 1)

	got := reloadPosting(t, posting.ID)
	assert.Equal(t, 100, got.AuthenticityScore)
}

func TestUpdateUserReputation(t *testing.T) {
	user := createTestUser(t, model.TierFree)
	require.NoError(t, engine.UpdateUserReputation(user.ID))

	var got model.User
	require.NoError(t, testDB.First(&got, "id = ?", user.ID).Error)
	assert.Equal(t, 25.0, got.ReputationScore)

	assert.ErrorIs(t, engine.UpdateUserReputation(uuid.New()), ErrNotFound)
}
