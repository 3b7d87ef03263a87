package model

import (
	"github.com/google/uuid"
)

// User role constants
var (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Subscription tier constants
var (
	TierFree       = "free"
	TierPro        = "pro"
	TierEnterprise = "enterprise"
)

// User is gorm model for store user account data in DB
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username string    `gorm:"type:text;uniqueIndex;not null" json:"username"`
	Password string    `gorm:"type:text" json:"-"`
	Email    *string   `gorm:"type:text" json:"email,omitempty"`

	Role string `gorm:"type:text;default:'user'" json:"role"`
	Tier string `gorm:"type:text;default:'free'" json:"tier"`

	FirstName       string  `gorm:"type:text" json:"first_name"`
	LastName        string  `gorm:"type:text" json:"last_name"`
	IsEmailVerified bool    `gorm:"type:boolean;default:false" json:"is_email_verified"`
	ReputationScore float64 `gorm:"type:double precision;default:0" json:"reputation_score"`
}

// PublicProfile is the subset of user fields exposed alongside feedback listings
type PublicProfile struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	ReputationScore float64   `json:"reputation_score"`
}

// ToPublicProfile converts a User to its public representation
func (u *User) ToPublicProfile() PublicProfile {
	return PublicProfile{
		ID:              u.ID,
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ReputationScore: u.ReputationScore,
	}
}
