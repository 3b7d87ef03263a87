// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Job posting source constants
var (
	SourceScraper = "scraper"
	SourceUser    = "user"
	SourceAdmin   = "admin"
)

// Job posting status constants
var (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Trust badge constants
var (
	BadgeVerified     = "verified"
	BadgeResponsive   = "responsive"
	BadgeScamWarning  = "scam_warning"
	BadgeUnresponsive = "unresponsive"
)

// NeutralScore is the authenticity score of a posting with no feedback.
const NeutralScore = 50

// EditableJobPostingInfo is the part of a job posting that submitters provide
type EditableJobPostingInfo struct {
	Title    string `gorm:"type:text" json:"title"`
	Company  string `gorm:"type:text" json:"company"`
	Location string `gorm:"type:text" json:"location"`
	Country  string `gorm:"type:text" json:"country"`
	// Partial unique index: canonical URLs identify a posting, but many
	// postings carry no URL at all.
	URL string `gorm:"type:text;index:idx_job_postings_url,unique,where:url <> ''" json:"url"`
}

// JobPosting is gorm model for store job posting data in DB.
// AuthenticityScore, TrustBadges, ReviewCount and LastReviewDate are derived
// fields owned by the trust engine; nothing else writes them.
type JobPosting struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`
	EditableJobPostingInfo

	Source string `gorm:"type:text;default:'scraper'" json:"source"`
	Status string `gorm:"type:text;default:'pending'" json:"status"`

	AuthenticityScore int            `gorm:"type:integer;default:50" json:"authenticity_score"`
	TrustBadges       pq.StringArray `gorm:"type:text[]" json:"trust_badges"`
	ReviewCount       int            `gorm:"type:integer;default:0" json:"review_count"`
	LastReviewDate    *time.Time     `gorm:"type:timestamp" json:"last_review_date,omitempty"`

	IsLocked bool `gorm:"type:boolean;default:false" json:"is_locked"`

	OwnerUserID *uuid.UUID `gorm:"type:uuid;index" json:"owner_user_id,omitempty"`
	OwnerUser   *User      `gorm:"foreignKey:OwnerUserID;references:ID" json:"-"`

	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}

// TrustFields is the narrow partial-update payload for derived trust columns.
// Score writes must go through this struct, never a full entity save, so the
// scoring path stays decoupled from unrelated posting columns.
type TrustFields struct {
	AuthenticityScore int
	TrustBadges       pq.StringArray
	ReviewCount       int
	LastReviewDate    *time.Time
}
