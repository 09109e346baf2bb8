// Package service contains the business logic that sits between the
// HTTP handlers and the database
package service

import (
	"errors"
	"time"

	"studysprint/study-api/internal/model"
	"studysprint/study-api/pkg/apperr"
	"studysprint/study-api/pkg/security"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Device carries the request metadata stored on a session row. The
// manager treats it as opaque.
type Device struct {
	Info      string
	IP        string
	UserAgent string
}

// TokenPair is what login, register and refresh hand back to the client
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	ExpiresAt        time.Time
	RefreshExpiresAt time.Time
}

// SessionManager orchestrates the credential store, the session store
// and the token codec. Sessions move ACTIVE -> REVOKED and never back;
// refresh rotates the token pair in place on the same row.
type SessionManager struct {
	DB    *gorm.DB
	Codec *security.TokenCodec
}

func NewSessionManager(db *gorm.DB, codec *security.TokenCodec) *SessionManager {
	return &SessionManager{DB: db, Codec: codec}
}

// Create mints a fresh token pair and persists a new session row for
// the user. Every call creates exactly one row; concurrent sessions
// from the same device are not deduplicated
func (m *SessionManager) Create(user *model.User, dev Device, remember bool) (*TokenPair, *model.Session, error) {
	refreshTTL := m.Codec.RefreshTTL
	if remember {
		refreshTTL = m.Codec.RememberTTL
	}

	access, accessExp, err := m.Codec.Mint(user.ID.String(), security.KindAccess, m.Codec.AccessTTL)
	if err != nil {
		return nil, nil, err
	}

	refresh, refreshExp, err := m.Codec.Mint(user.ID.String(), security.KindRefresh, refreshTTL)
	if err != nil {
		return nil, nil, err
	}

	sess := &model.Session{
		UserID:           user.ID,
		SessionToken:     access,
		RefreshToken:     refresh,
		DeviceInfo:       dev.Info,
		IPAddress:        dev.IP,
		UserAgent:        dev.UserAgent,
		ExpiresAt:        accessExp,
		RefreshExpiresAt: refreshExp,
		IsActive:         true,
	}

	if err := m.DB.Create(sess).Error; err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	if err := m.DB.Model(user).Update("last_login", now).Error; err != nil {
		return nil, nil, err
	}
	user.LastLogin = &now

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresAt:        accessExp,
		RefreshExpiresAt: refreshExp,
	}, sess, nil
}

// Refresh trades a refresh token for a new token pair, rotating both
// tokens on the existing session row. The old refresh token stops
// matching any row, so replaying it fails the session lookup
func (m *SessionManager) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := m.Codec.Verify(refreshToken, security.KindRefresh)
	if err != nil {
		return nil, apperr.Authentication("Invalid or expired refresh token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperr.Authentication("Invalid or expired refresh token")
	}

	var user model.User
	if err := m.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authentication("User not found or inactive")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperr.Authentication("User not found or inactive")
	}

	var sess model.Session
	err = m.DB.
		Where("refresh_token = ? AND user_id = ? AND is_active = ?", refreshToken, user.ID, true).
		First(&sess).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authentication("Invalid session")
		}
		return nil, err
	}

	if sess.RevokedAt != nil || time.Now().UTC().After(sess.RefreshExpiresAt) {
		return nil, apperr.Authentication("Invalid session")
	}

	access, accessExp, err := m.Codec.Mint(user.ID.String(), security.KindAccess, m.Codec.AccessTTL)
	if err != nil {
		return nil, err
	}

	refresh, refreshExp, err := m.Codec.Mint(user.ID.String(), security.KindRefresh, m.Codec.RefreshTTL)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = m.DB.Model(&sess).Updates(map[string]any{
		"session_token":      access,
		"refresh_token":      refresh,
		"expires_at":         accessExp,
		"refresh_expires_at": refreshExp,
		"last_used_at":       now,
	}).Error
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresAt:        accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Revoke marks sessions inactive. With revokeAll every active session
// of the user is revoked, otherwise only the row holding the given
// access token. Reports whether any row changed
func (m *SessionManager) Revoke(sessionToken string, userID uuid.UUID, revokeAll bool) (bool, error) {
	now := time.Now().UTC()

	q := m.DB.Model(model.Session{}).Where("user_id = ? AND is_active = ?", userID, true)

	reason := model.RevokeLogoutAll
	if !revokeAll {
		q = q.Where("session_token = ?", sessionToken)
		reason = model.RevokeLogout
	}

	res := q.Updates(map[string]any{
		"is_active":         false,
		"revoked_at":        now,
		"revocation_reason": reason,
	})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// RevokeByID revokes a single session addressed by its row ID
func (m *SessionManager) RevokeByID(sessionID, userID uuid.UUID) (bool, error) {
	now := time.Now().UTC()

	res := m.DB.Model(model.Session{}).
		Where("id = ? AND user_id = ? AND is_active = ?", sessionID, userID, true).
		Updates(map[string]any{
			"is_active":         false,
			"revoked_at":        now,
			"revocation_reason": model.RevokeUserRevoked,
		})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// Authenticate resolves an access token to its user. Only signature,
// expiry and the user's active flag are checked; the session row is
// not consulted, so a revoked-but-unexpired access token still passes
// until it runs out
func (m *SessionManager) Authenticate(accessToken string) (*model.User, error) {
	claims, err := m.Codec.Verify(accessToken, security.KindAccess)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, apperr.TokenExpired()
		}
		return nil, apperr.InvalidToken()
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperr.InvalidToken()
	}

	var user model.User
	if err := m.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authentication("User not found")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperr.Authentication("User account is deactivated")
	}

	return &user, nil
}

// List returns the user's active sessions, most recently used first
func (m *SessionManager) List(userID uuid.UUID) ([]model.Session, error) {
	var sessions []model.Session

	err := m.DB.
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("last_used_at desc").
		Find(&sessions).
		Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// RevokeAllForUser is the password-change and deactivation hook: it
// kills every session so the user has to log in again everywhere
func (m *SessionManager) RevokeAllForUser(userID uuid.UUID) error {
	affected, err := m.Revoke("", userID, true)
	if err != nil {
		return err
	}

	if affected {
		zap.L().Debug("Revoked all sessions", zap.String("userID", userID.String()))
	}

	return nil
}
