package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
)

// Token kinds carried in the "kind" claim. A token minted for one
// purpose never verifies as the other.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims is the signed claim set carried by both token kinds
type Claims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenCodec mints and verifies the HS256 tokens used for sessions.
// Verification checks signature, expiry and kind only. Revocation
// state lives on the session rows, not in the token.
type TokenCodec struct {
	Secret      []byte
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	RememberTTL time.Duration
}

func NewCodec() *TokenCodec {
	return &TokenCodec{
		Secret:      []byte(viper.GetString("jwt.secret")),
		AccessTTL:   time.Duration(viper.GetInt("jwt.access_ttl_min")) * time.Minute,
		RefreshTTL:  time.Duration(viper.GetInt("jwt.refresh_ttl_days")) * 24 * time.Hour,
		RememberTTL: time.Duration(viper.GetInt("jwt.remember_ttl_days")) * 24 * time.Hour,
	}
}

// Mint signs a token of the given kind for a subject. It returns the
// serialized token together with its expiry time
func (tc *TokenCodec) Mint(subject, kind string, ttl time.Duration) (string, time.Time, error) {
	jti, err := gonanoid.New(21)
	if err != nil {
		return "", time.Time{}, err
	}

	now := time.Now().UTC()
	exp := now.Add(ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := t.SignedString(tc.Secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, exp, nil
}

// Verify parses a token and checks its signature, expiry and kind.
// Expiry failures are reported as ErrTokenExpired, everything else as
// ErrTokenInvalid
func (tc *TokenCodec) Verify(tokenStr, kind string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return tc.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, ErrTokenInvalid
	}

	if claims.Kind != kind {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
