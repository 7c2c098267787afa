package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
	"github.com/vladpirlog/takenote-api-sub000/internal/kvstore"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Role:         models.RoleUser,
		AccountState: models.StateActive,
	}
}

// newTestManager returns a manager pinned to a fixed clock that both the
// token layer and the blacklist store share.
func newTestManager(t *testing.T, validity time.Duration) (*TokenManager, *kvstore.MemoryStore, *time.Time) {
	t.Helper()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := kvstore.NewMemory()
	store.Now = func() time.Time { return current }

	m := NewTokenManager([]byte("test-secret"), validity, store)
	m.now = func() time.Time { return current }
	return m, store, &current
}

func TestIssueAndVerify(t *testing.T) {
	m, _, _ := newTestManager(t, time.Hour)
	user := testUser()

	signed, issued, err := m.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := m.Verify(context.Background(), signed)
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, models.StateActive, claims.AccountState)
	assert.Equal(t, issued.RegisteredClaims.ID, claims.RegisteredClaims.ID)
	assert.Equal(t, claims.IssuedAt.Time, claims.NotBefore.Time)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestVerifyExpired(t *testing.T) {
	m, _, current := newTestManager(t, time.Hour)

	signed, _, err := m.Issue(testUser())
	require.NoError(t, err)

	*current = current.Add(2 * time.Hour)

	_, err = m.Verify(context.Background(), signed)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestVerifyWrongSecret(t *testing.T) {
	m, _, _ := newTestManager(t, time.Hour)

	other := NewTokenManager([]byte("other-secret"), time.Hour, kvstore.NewMemory())
	signed, _, err := other.Issue(testUser())
	require.NoError(t, err)

	_, err = m.Verify(context.Background(), signed)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestVerifyGarbage(t *testing.T) {
	m, _, _ := newTestManager(t, time.Hour)

	_, err := m.Verify(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestRevokedTokenRejectedUntilExpiry(t *testing.T) {
	m, _, current := newTestManager(t, time.Hour)

	signed, claims, err := m.Issue(testUser())
	require.NoError(t, err)

	require.NoError(t, m.Revoke(context.Background(), claims))

	_, err = m.Verify(context.Background(), signed)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	// Revoking again is a no-op.
	require.NoError(t, m.Revoke(context.Background(), claims))

	// Once the token has expired the blacklist entry no longer matters; the
	// expiry check fires first.
	*current = current.Add(2 * time.Hour)
	_, err = m.Verify(context.Background(), signed)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestBlacklistAddExpiredTokenNotStored(t *testing.T) {
	m, store, current := newTestManager(t, time.Hour)

	require.NoError(t, m.BlacklistAdd(context.Background(), "tok-1", current.Add(-time.Minute)))

	_, err := store.Get(context.Background(), blacklistPrefix+"tok-1")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestReissueInvalidatesOldToken(t *testing.T) {
	m, _, _ := newTestManager(t, time.Hour)
	user := testUser()

	oldSigned, oldClaims, err := m.Issue(user)
	require.NoError(t, err)

	user.AccountState = models.StateDeleting
	newSigned, newClaims, err := m.Reissue(context.Background(), oldClaims, user)
	require.NoError(t, err)
	assert.NotEqual(t, oldSigned, newSigned)
	assert.NotEqual(t, oldClaims.RegisteredClaims.ID, newClaims.RegisteredClaims.ID)
	assert.Equal(t, models.StateDeleting, newClaims.AccountState)

	_, err = m.Verify(context.Background(), oldSigned)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)

	verified, err := m.Verify(context.Background(), newSigned)
	require.NoError(t, err)
	assert.Equal(t, models.StateDeleting, verified.AccountState)
}
