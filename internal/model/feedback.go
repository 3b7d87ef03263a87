package model

import (
	"time"

	"github.com/google/uuid"
)

// Feedback type constants
var (
	FeedbackResponse        = "response"
	FeedbackInterview       = "interview"
	FeedbackScam            = "scam"
	FeedbackExpired         = "expired"
	FeedbackHired           = "hired"
	FeedbackGhosted         = "ghosted"
	FeedbackRejected        = "rejected"
	FeedbackPaymentRequired = "payment_required"
)

// MaxCommentLength is the upper bound on feedback comments, counted in
// characters, not bytes.
const MaxCommentLength = 500

// Feedback is gorm model for a single user's feedback on a job posting.
// A user may leave at most one feedback per posting; the composite unique
// index is what enforces that under concurrent submissions.
// Rows are immutable once created. UserWeightAtCreation is the submitter's
// scoring weight frozen at submission time; it is never recomputed even when
// the user's reputation later changes.
type Feedback struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`

	JobPostingID uint       `gorm:"not null;uniqueIndex:idx_feedback_job_user" json:"job_posting_id"`
	JobPosting   JobPosting `gorm:"foreignKey:JobPostingID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_job_user" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"-"`

	JobApplicationID *uint           `gorm:"index" json:"job_application_id,omitempty"`
	JobApplication   *JobApplication `gorm:"foreignKey:JobApplicationID;references:ID" json:"-"`

	FeedbackType  string  `gorm:"type:text;not null" json:"feedback_type"`
	IsReal        bool    `gorm:"type:boolean;not null" json:"is_real"`
	IsResponsive  *bool   `gorm:"type:boolean" json:"is_responsive,omitempty"`
	DidInterview  *bool   `gorm:"type:boolean" json:"did_interview,omitempty"`
	AskedForMoney *bool   `gorm:"type:boolean" json:"asked_for_money,omitempty"`
	Comment       *string `gorm:"type:text" json:"comment,omitempty"`

	UserWeightAtCreation float64   `gorm:"type:double precision;not null;<-:create" json:"user_weight_at_creation"`
	CreatedAt            time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}

// FeedbackWithSubmitter joins a feedback row with the submitter's public
// profile for listing endpoints.
type FeedbackWithSubmitter struct {
	Feedback
	Submitter PublicProfile `json:"submitter"`
}
