package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Revocation reasons stored on a session row. Rows are never deleted
// on logout so the audit trail stays intact.
const (
	RevokeLogout      = "logout"
	RevokeLogoutAll   = "logout_all"
	RevokeUserRevoked = "user_revoked"
)

type Session struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	SessionToken string `gorm:"size:512;uniqueIndex;not null" json:"-"`
	RefreshToken string `gorm:"size:512;uniqueIndex" json:"-"`

	DeviceInfo string `gorm:"size:500" json:"device_info,omitempty"`
	IPAddress  string `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent  string `gorm:"type:text" json:"user_agent,omitempty"`

	ExpiresAt        time.Time `gorm:"not null" json:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	LastUsedAt       time.Time `gorm:"not null" json:"last_used_at"`

	IsActive         bool       `gorm:"not null;default:true" json:"is_active"`
	RevokedAt        *time.Time `json:"revoked_at,omitempty"`
	RevocationReason string     `gorm:"size:100" json:"revocation_reason,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.LastUsedAt.IsZero() {
		s.LastUsedAt = time.Now().UTC()
	}
	return nil
}

// Expired reports whether the access-token side of the session is past
// its expiry
func (s *Session) Expired() bool {
	return time.Now().UTC().After(s.ExpiresAt)
}

// Valid reports whether the session can still be used: active, not
// expired and never revoked
func (s *Session) Valid() bool {
	return s.IsActive && !s.Expired() && s.RevokedAt == nil
}

// Revoke marks the session inactive with the given reason. The row is
// kept for auditing
func (s *Session) Revoke(reason string) {
	now := time.Now().UTC()
	s.IsActive = false
	s.RevokedAt = &now
	s.RevocationReason = reason
}
