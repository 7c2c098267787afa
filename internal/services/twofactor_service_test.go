package services

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
)

func TestTwoFactorSetupAndActivate(t *testing.T) {
	e := newAuthEnv(t)

	registered := e.register(t, "alice")

	prov, err := e.tfa.Setup(context.Background(), registered.Claims)
	require.NoError(t, err)
	require.NotEmpty(t, prov.Secret)

	code, err := totp.GenerateCode(prov.Secret, time.Now())
	require.NoError(t, err)

	result, err := e.tfa.Activate(context.Background(), registered.Claims, code)
	require.NoError(t, err)
	assert.Len(t, result.BackupCodes, 8)

	user, err := e.auth.GetUserByID(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.True(t, user.TwoFactorEnabled)
}

func TestTwoFactorActivateWrongCode(t *testing.T) {
	e := newAuthEnv(t)

	registered := e.register(t, "alice")

	_, err := e.tfa.Setup(context.Background(), registered.Claims)
	require.NoError(t, err)

	_, err = e.tfa.Activate(context.Background(), registered.Claims, "000000")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCode)

	user, err := e.auth.GetUserByID(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.False(t, user.TwoFactorEnabled)
}

func TestTwoFactorActivateWithoutSetup(t *testing.T) {
	e := newAuthEnv(t)

	registered := e.register(t, "alice")

	_, err := e.tfa.Activate(context.Background(), registered.Claims, "000000")
	assert.ErrorIs(t, err, apperrors.ErrTwoFactorNotConfigured)
}

func TestTwoFactorSetupWhenAlreadyActive(t *testing.T) {
	e := newAuthEnv(t)

	registered := e.register(t, "alice")
	e.enable2FA(t, registered)

	_, err := e.tfa.Setup(context.Background(), registered.Claims)
	assert.ErrorIs(t, err, apperrors.ErrTwoFactorAlreadyActive)

	user, err := e.auth.GetUserByID(context.Background(), registered.User.ID)
	require.NoError(t, err)
	code, err := totp.GenerateCode(user.TwoFactorSecret, time.Now())
	require.NoError(t, err)
	_, err = e.tfa.Activate(context.Background(), registered.Claims, code)
	assert.ErrorIs(t, err, apperrors.ErrTwoFactorAlreadyActive)
}

func TestTwoFactorDisable(t *testing.T) {
	e := newAuthEnv(t)

	registered := e.register(t, "alice")
	codes := e.enable2FA(t, registered)

	require.NoError(t, e.tfa.Disable(context.Background(), registered.Claims, codes[0]))

	user, err := e.auth.GetUserByID(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.False(t, user.TwoFactorEnabled)
	assert.Empty(t, user.TwoFactorSecret)

	// Logins now skip the pending state again.
	result, err := e.auth.Login(context.Background(), "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestTwoFactorDisableWhenNotEnabled(t *testing.T) {
	e := newAuthEnv(t)

	registered := e.register(t, "alice")

	err := e.tfa.Disable(context.Background(), registered.Claims, "000000")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}
