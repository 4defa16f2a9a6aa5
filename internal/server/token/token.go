// Package token implements minting and verification of the two signed
// token kinds used by authcore: short-lived access tokens and long-lived
// refresh tokens. Tokens are stateless JWTs; the kind is itself a signed
// claim, never inferred from where the token arrived.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind discriminates the two token kinds carried in the token_type claim.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims are the signed assertions embedded in every token. Subject is the
// normalized account email. The jti makes two tokens minted for the same
// subject within one clock tick distinct strings.
type Claims struct {
	TokenType Kind `json:"token_type"`
	jwt.RegisteredClaims
}

// Manager mints and verifies HS256-signed tokens with a single shared
// symmetric key held for the process lifetime. Safe for concurrent use.
type Manager struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	// now is a test seam for the clock.
	now func() time.Time
}

// NewManager constructs a Manager from raw key material and the two
// configured lifetimes.
func NewManager(key []byte, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if len(key) == 0 {
		return nil, errors.New("signing key is required")
	}
	return &Manager{
		key:        key,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (m *Manager) AccessTokenTTL() time.Duration { return m.accessTTL }

// RefreshTokenTTL returns the configured refresh token lifetime.
func (m *Manager) RefreshTokenTTL() time.Duration { return m.refreshTTL }

// NewAccessToken mints a signed access token for the given subject.
func (m *Manager) NewAccessToken(subject string) (string, error) {
	return m.mint(subject, KindAccess, m.accessTTL)
}

// NewRefreshToken mints a signed refresh token for the given subject.
func (m *Manager) NewRefreshToken(subject string) (string, error) {
	return m.mint(subject, KindRefresh, m.refreshTTL)
}

// VerifyAccessToken checks signature, expiry, and the kind claim, and
// returns the embedded subject. Every failure mode — malformed input, bad
// signature, expired token, wrong kind — collapses to ok == false; callers
// probing the system learn nothing about which check failed.
func (m *Manager) VerifyAccessToken(tokenString string) (string, bool) {
	return m.verify(tokenString, KindAccess)
}

// VerifyRefreshToken is VerifyAccessToken for the refresh kind.
func (m *Manager) VerifyRefreshToken(tokenString string) (string, bool) {
	return m.verify(tokenString, KindRefresh)
}

func (m *Manager) mint(subject string, kind Kind, ttl time.Duration) (string, error) {
	now := m.now()

	claims := Claims{
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
}

func (m *Manager) verify(tokenString string, kind Kind) (string, bool) {
	claims := &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)

	parsed, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.key, nil
	})
	if err != nil || !parsed.Valid {
		return "", false
	}
	if claims.TokenType != kind {
		return "", false
	}
	if claims.Subject == "" {
		return "", false
	}

	return claims.Subject, true
}
