// Package auth issues, verifies and revokes the signed session tokens every
// entity operation passes through.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
	"github.com/vladpirlog/takenote-api-sub000/internal/kvstore"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
)

const blacklistPrefix = "jwt:blacklist:"

// Claims carries the principal snapshot inside the session token. Subject is
// the user id and ID the random token id used as the blacklist key.
type Claims struct {
	Role         models.Role         `json:"role"`
	AccountState models.AccountState `json:"accountState"`
	jwt.RegisteredClaims
}

// UserID parses the token subject.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TokenManager signs and verifies session tokens and keeps the revocation
// blacklist in the TTL store.
type TokenManager struct {
	secret   []byte
	validity time.Duration
	store    kvstore.Store

	now func() time.Time
}

func NewTokenManager(secret []byte, validity time.Duration, store kvstore.Store) *TokenManager {
	return &TokenManager{
		secret:   secret,
		validity: validity,
		store:    store,
		now:      time.Now,
	}
}

// Issue creates a signed token for the user with a fresh random token id and
// notBefore equal to issuedAt.
func (m *TokenManager) Issue(user *models.User) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		Role:         user.Role,
		AccountState: user.AccountState,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.validity)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Verify checks signature and validity window, then consults the blacklist.
// Bad or expired tokens fail with ErrUnauthenticated, blacklisted ones with
// ErrTokenRevoked.
func (m *TokenManager) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", apperrors.ErrUnauthenticated)
	}

	_, err = m.store.Get(ctx, blacklistPrefix+claims.RegisteredClaims.ID)
	if err == nil {
		return nil, fmt.Errorf("token %s: %w", claims.RegisteredClaims.ID, apperrors.ErrTokenRevoked)
	}
	if err != kvstore.ErrNotFound {
		return nil, err
	}

	return claims, nil
}

// BlacklistAdd records a token id until its original expiry. The TTL is
// clamped to zero so already-expired tokens are not stored; the call is
// idempotent.
func (m *TokenManager) BlacklistAdd(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(m.now())
	if ttl < 0 {
		ttl = 0
	}
	return m.store.SetEX(ctx, blacklistPrefix+tokenID, "1", ttl)
}

// Revoke blacklists the token behind the given claims for the remainder of
// its validity.
func (m *TokenManager) Revoke(ctx context.Context, claims *Claims) error {
	return m.BlacklistAdd(ctx, claims.RegisteredClaims.ID, claims.ExpiresAt.Time)
}

// Reissue enforces the forced-invalidation rule: whenever role or account
// state changes for an authenticated principal, the old token is blacklisted
// and a replacement reflecting the new state is returned in the same
// response.
func (m *TokenManager) Reissue(ctx context.Context, old *Claims, user *models.User) (string, *Claims, error) {
	if err := m.Revoke(ctx, old); err != nil {
		return "", nil, err
	}
	return m.Issue(user)
}
