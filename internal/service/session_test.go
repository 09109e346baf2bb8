package service

import (
	"fmt"
	"testing"
	"time"

	"studysprint/study-api/internal/model"
	"studysprint/study-api/pkg/apperr"
	"studysprint/study-api/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		model.User{},
		model.Session{},
		model.Preferences{},
		model.Topic{},
		model.TopicGoal{},
	))

	return db
}

func testCodec() *security.TokenCodec {
	return &security.TokenCodec{
		Secret:      []byte("test-secret"),
		AccessTTL:   30 * time.Minute,
		RefreshTTL:  7 * 24 * time.Hour,
		RememberTTL: 30 * 24 * time.Hour,
	}
}

func testUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()

	u := &model.User{
		Email:        "user@example.com",
		Username:     "user",
		PasswordHash: "irrelevant",
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)

	return u
}

func assertKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, kind, appErr.Kind)
}

func TestCreateSession(t *testing.T) {
	db := testDB(t)
	m := NewSessionManager(db, testCodec())
	u := testUser(t, db)

	pair, sess, err := m.Create(u, Device{Info: "test", IP: "127.0.0.1"}, false)
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, sess.IsActive)
	assert.NotNil(t, u.LastLogin)

	var count int64
	require.NoError(t, db.Model(model.Session{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateSessionRemember(t *testing.T) {
	db := testDB(t)
	m := NewSessionManager(db, testCodec())
	u := testUser(t, db)

	pair, _, err := m.Create(u, Device{}, true)
	require.NoError(t, err)

	// Remember-me stretches the refresh window, not the access window
	assert.True(t, pair.RefreshExpiresAt.After(time.Now().UTC().Add(29*24*time.Hour)))
	assert.True(t, pair.ExpiresAt.Before(time.Now().UTC().Add(time.Hour)))
}

func TestRefreshRotatesTokens(t *testing.T) {
	db := testDB(t)
	m := NewSessionManager(db, testCodec())
	u := testUser(t, db)

	pair, sess, err := m.Create(u, Device{}, false)
	require.NoError(t, err)

	rotated, err := m.Refresh(pair.RefreshToken)
	require.NoError(t, err)

	assert.NotEqual(t, pair.AccessToken, rotated.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// Rotation reuses the row instead of creating a second session
	var count int64
	require.NoError(t, db.Model(model.Session{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var reloaded model.Session
	require.NoError(t, db.First(&reloaded, "id = ?", sess.ID).Error)
	assert.Equal(t, rotated.RefreshToken, reloaded.RefreshToken)
	assert.Equal(t, rotated.AccessToken, reloaded.SessionToken)
}

func TestRefreshReplayFails(t *testing.T) {
	db := testDB(t)
	m := NewSessionManager(db, testCodec())
	u := testUser(t, db)

	pair, _, err := m.Create(u, Device{}, false)
	require.NoError(t, err)

	_, err = m.Refresh(pair.RefreshToken)
	require.NoError(t, err)

	// The first rotation orphaned the old token, replaying it must fail
	_, err = m.Refresh(pair.RefreshToken)
	assertKind(t, err, apperr.KindAuthentication)
}

func TestRefreshRevokedSession(t *testing.T) {
	db := testDB(t)
	m := NewSessionManager(db, testCodec())
	u := testUser(t, db)

	pair, _, err := m.Create(u, Device{}, false)
	require.NoError(t, err)

	affected, err := m.Revoke(pair.AccessToken, u.ID, false)
	require.NoError(t, err)
	require.True(t, affected)

	_, err = m.Refresh(pair.RefreshToken)
	assertKind(t, err, apperr.KindAuthentication)
}

func TestRefreshInactiveUser(t *testing.T) {
	db := testDB(t)
	m := NewSessionManager(db, testCodec())
	u := testUser(t, db)

	pair, _, err := m.Create(u, Device{}, false)
	require.NoError(t, err)

	require.NoError(t, db.Model(u).Update("is_active", false).Error)

	_, err = m.Refresh(pair.RefreshToken)
	assertKind(t, err, apperr.KindAuthentication)
}

func TestRefreshGarbageToken(t *testing.T) {
	db := testDB(t)
	m := NewSessionManager(db, testCodec())

	_, err := m.Refresh("not.a.token")
	assertKind(t, err, apperr.KindAuthentication)
}

func TestRevokeSingleSession(t *testing.T) {
	db := testDB(t)
	m := NewSessionManager(db, testCodec())
	u := testUser(t, db)

	p1, _, err := m.Create(u, Device{}, false)
	require.NoError(t, err)
	_, _, err = m.Create(u, Device{}, false)
	require.NoError(t, err)

	affected, err := m.Revoke(p1.AccessToken, u.ID, false)
	require.NoError(t, err)
	assert.True(t, affected)

	sessions, err := m.List(u.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	// The revoked row stays in the table for auditing
	var total int64
	require.NoError(t, db.Model(model.Session{}).Where("user_id = ?", u.ID).Count(&total).Error)
	assert.EqualValues(t, 2, total)

	var revoked model.Session
	require.NoError(t, db.First(&revoked, "session_token = ?", p1.AccessToken).Error)
	assert.False(t, revoked.IsActive)
	assert.NotNil(t, revoked.RevokedAt)
	assert.Equal(t, model.RevokeLogout, revoked.RevocationReason)
}

func TestRevokeAllIsIdempotent(t *testing.T) {
	db := testDB(t)
	m := NewSessionManager(db, testCodec())
	u := testUser(t, db)

	_, _, err := m.Create(u, Device{}, false)
	require.NoError(t, err)
	_, _, err = m.Create(u, Device{}, false)
	require.NoError(t, err)

	affected, err := m.Revoke("", u.ID, true)
	require.NoError(t, err)
	assert.True(t, affected)

	affected, err = m.Revoke("", u.ID, true)
	require.NoError(t, err)
	assert.False(t, affected)

	sessions, err := m.List(u.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRevokeByID(t *testing.T) {
	db := testDB(t)
	m := NewSessionManager(db, testCodec())
	u := testUser(t, db)

	_, sess, err := m.Create(u, Device{}, false)
	require.NoError(t, err)

	affected, err := m.RevokeByID(sess.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, affected)

	var reloaded model.Session
	require.NoError(t, db.First(&reloaded, "id = ?", sess.ID).Error)
	assert.Equal(t, model.RevokeUserRevoked, reloaded.RevocationReason)

	// A second attempt finds no active row
	affected, err = m.RevokeByID(sess.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, affected)
}

func TestAuthenticate(t *testing.T) {
	db := testDB(t)
	m := NewSessionManager(db, testCodec())
	u := testUser(t, db)

	pair, _, err := m.Create(u, Device{}, false)
	require.NoError(t, err)

	got, err := m.Authenticate(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestAuthenticateSurvivesRevocation(t *testing.T) {
	db := testDB(t)
	m := NewSessionManager(db, testCodec())
	u := testUser(t, db)

	pair, _, err := m.Create(u, Device{}, false)
	require.NoError(t, err)

	_, err = m.Revoke("", u.ID, true)
	require.NoError(t, err)

	// Bearer auth is stateless. Revocation cuts off refresh, not an
	// unexpired access token
	_, err = m.Authenticate(pair.AccessToken)
	assert.NoError(t, err)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	db := testDB(t)
	codec := testCodec()
	m := NewSessionManager(db, codec)
	u := testUser(t, db)

	token, _, err := codec.Mint(u.ID.String(), security.KindAccess, -time.Second)
	require.NoError(t, err)

	_, err = m.Authenticate(token)
	assertKind(t, err, apperr.KindTokenExpired)
}

func TestAuthenticateRefreshTokenRejected(t *testing.T) {
	db := testDB(t)
	m := NewSessionManager(db, testCodec())
	u := testUser(t, db)

	pair, _, err := m.Create(u, Device{}, false)
	require.NoError(t, err)

	_, err = m.Authenticate(pair.RefreshToken)
	assertKind(t, err, apperr.KindInvalidToken)
}

func TestAuthenticateInactiveUser(t *testing.T) {
	db := testDB(t)
	m := NewSessionManager(db, testCodec())
	u := testUser(t, db)

	pair, _, err := m.Create(u, Device{}, false)
	require.NoError(t, err)

	require.NoError(t, db.Model(u).Update("is_active", false).Error)

	_, err = m.Authenticate(pair.AccessToken)
	assertKind(t, err, apperr.KindAuthentication)
}
