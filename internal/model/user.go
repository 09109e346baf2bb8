package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username     string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	FullName string `gorm:"size:255" json:"full_name,omitempty"`

	IsActive    bool `gorm:"not null;default:true" json:"is_active"`
	IsVerified  bool `gorm:"not null;default:false" json:"is_verified"`
	IsSuperuser bool `gorm:"not null;default:false" json:"-"`

	SubscriptionTier string `gorm:"size:20;not null;default:free" json:"subscription_tier"`

	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`

	// Kept for the verification and reset flows. Nothing issues these
	// yet so they stay empty until those flows land.
	EmailVerificationToken  string     `gorm:"size:255" json:"-"`
	EmailVerificationSentAt *time.Time `json:"-"`
	PasswordResetToken      string     `gorm:"size:255" json:"-"`
	PasswordResetSentAt     *time.Time `json:"-"`

	Sessions    []Session    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Preferences *Preferences `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"preferences,omitempty"`
	Topics      []Topic      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DisplayName returns the full name when set, the username otherwise
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
