package trust

import (
	"errors"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"jobtrust-backend/internal/database"
	"jobtrust-backend/internal/model"
)

// Engine orchestrates feedback ingestion and the derived-score projection.
type Engine struct {
	DB *database.DBinstanceStruct
}

// NewEngine creates a new Engine on top of the given database instance.
func NewEngine(db *database.DBinstanceStruct) *Engine {
	return &Engine{DB: db}
}

// SubmitInput carries one feedback submission. Exactly one of JobPostingID
// or JobApplicationID must identify the job.
type SubmitInput struct {
	JobPostingID     *uint
	JobApplicationID *uint
	FeedbackType     string
	IsReal           bool
	IsResponsive     *bool
	DidInterview     *bool
	AskedForMoney    *bool
	Comment          *string
}

// SubmitFeedback resolves the submission to a posting, persists the feedback
// row and synchronously recomputes the posting's score and the submitter's
// reputation before returning, so a client re-fetching the posting right
// after never observes a stale score.
//
// The feedback write is the durable fact; recompute failures are logged and
// swallowed because the score is a derived projection the rescore sweep
// heals on its own.
func (e *Engine) SubmitFeedback(user model.User, in SubmitInput) (*model.Feedback, error) {
	if in.Comment != nil && utf8.RuneCountInString(*in.Comment) > model.MaxCommentLength {
		return nil, fmt.Errorf("%w: comment exceeds %d characters", ErrValidation, model.MaxCommentLength)
	}
	if !validFeedbackType(in.FeedbackType) {
		return nil, fmt.Errorf("%w: unknown feedback type %q", ErrValidation, in.FeedbackType)
	}

	postingID, err := e.resolvePosting(user, in)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := e.DB.Model(&model.Feedback{}).
		Where("job_posting_id = ? AND user_id = ?", postingID, user.ID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateFeedback
	}

	feedback := model.Feedback{
		JobPostingID:         postingID,
		UserID:               user.ID,
		JobApplicationID:     in.JobApplicationID,
		FeedbackType:         in.FeedbackType,
		IsReal:               in.IsReal,
		IsResponsive:         in.IsResponsive,
		DidInterview:         in.DidInterview,
		AskedForMoney:        in.AskedForMoney,
		Comment:              in.Comment,
		UserWeightAtCreation: SubmitterWeight(user),
	}

	if err := e.DB.Create(&feedback).Error; err != nil {
		// The composite unique index is the atomic guard; two concurrent
		// submissions from the same user race past the count check and the
		// loser surfaces here.
		if isUniqueViolation(err) {
			return nil, ErrDuplicateFeedback
		}
		return nil, err
	}

	if err := e.RecomputeJobScore(postingID); err != nil {
		log.Printf("[trust] score recompute failed for posting %d: %v", postingID, err)
	}
	if err := e.UpdateUserReputation(user.ID); err != nil {
		log.Printf("[trust] reputation recompute failed for user %s: %v", user.ID, err)
	}

	return &feedback, nil
}

// RecomputeJobScore re-reads the posting's entire feedback set and rewrites
// the derived trust columns. Locked postings are left untouched. A posting
// with no remaining feedback is reset to the neutral defaults rather than
// frozen at its last known score.
//
// Concurrent recomputes for the same posting are last-writer-wins; each one
// derives from a consistent full read, so the stored result may be briefly
// stale but never corrupt.
func (e *Engine) RecomputeJobScore(postingID uint) error {
	var posting model.JobPosting
	if err := e.DB.First(&posting, postingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: job posting %d", ErrNotFound, postingID)
		}
		return err
	}

	if posting.IsLocked {
		return nil
	}

	var rows []model.Feedback
	if err := e.DB.Where("job_posting_id = ?", postingID).Find(&rows).Error; err != nil {
		return err
	}

	now := time.Now()
	score, counters := AggregateScore(rows, now)
	badges := DeriveBadges(score, len(rows), counters)

	fields := model.TrustFields{
		AuthenticityScore: score,
		TrustBadges:       badges,
		ReviewCount:       len(rows),
	}
	if len(rows) > 0 {
		fields.LastReviewDate = &now
	}

	return e.writeTrustFields(postingID, fields)
}

// writeTrustFields persists the derived trust columns and nothing else.
func (e *Engine) writeTrustFields(postingID uint, fields model.TrustFields) error {
	return e.DB.Model(&model.JobPosting{}).
		Where("id = ?", postingID).
		Updates(map[string]interface{}{
			"authenticity_score": fields.AuthenticityScore,
			"trust_badges":       fields.TrustBadges,
			"review_count":       fields.ReviewCount,
			"last_review_date":   fields.LastReviewDate,
		}).Error
}

// UpdateUserReputation recomputes and stores the user's reputation score.
func (e *Engine) UpdateUserReputation(userID uuid.UUID) error {
	var user model.User
	if err := e.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %s", ErrNotFound, userID)
		}
		return err
	}

	return e.DB.Model(&user).
		Update("reputation_score", ProfileReputation(user)).Error
}

// RescoreAll recomputes every posting that has feedback. Time-decay tiers
// shift as rows age, so stored scores drift even without new submissions;
// the cron sweep calls this to keep them current. Locked postings are
// skipped inside RecomputeJobScore.
func (e *Engine) RescoreAll() (int, error) {
	var postingIDs []uint
	if err := e.DB.Model(&model.Feedback{}).
		Distinct("job_posting_id").
		Pluck("job_posting_id", &postingIDs).Error; err != nil {
		return 0, err
	}

	rescored := 0
	for _, id := range postingIDs {
		if err := e.RecomputeJobScore(id); err != nil {
			log.Printf("[trust] rescore failed for posting %d: %v", id, err)
			continue
		}
		rescored++
	}

	return rescored, nil
}

func validFeedbackType(t string) bool {
	switch t {
	case model.FeedbackResponse, model.FeedbackInterview, model.FeedbackScam,
		model.FeedbackExpired, model.FeedbackHired, model.FeedbackGhosted,
		model.FeedbackRejected, model.FeedbackPaymentRequired:
		return true
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
