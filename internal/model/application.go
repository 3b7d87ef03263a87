package model

import (
	"time"

	"github.com/google/uuid"
)

// JobApplication represents a tracked application record. The trust engine
// only reads it during feedback resolution and back-links JobPostingID when
// a shadow posting gets materialized from its URL.
type JobApplication struct {
	ID     uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"-"`

	JobPostingID *uint       `gorm:"index" json:"job_posting_id,omitempty"`
	JobPosting   *JobPosting `gorm:"foreignKey:JobPostingID;references:ID" json:"-"`

	JobURL         *string `gorm:"type:text" json:"job_url,omitempty"`
	JobTitle       string  `gorm:"type:text" json:"job_title"`
	CompanyName    string  `gorm:"type:text" json:"company_name"`
	JobLocation    string  `gorm:"type:text" json:"job_location"`
	JobDescription string  `gorm:"type:text" json:"job_description"`

	AppliedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"applied_at"`
}
