// Package twofactor manages TOTP secrets, backup codes, remember windows and
// the pending-2FA intermediate sessions.
package twofactor

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
	"github.com/vladpirlog/takenote-api-sub000/internal/kvstore"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
	"github.com/vladpirlog/takenote-api-sub000/pkg/ident"
)

const backupCodeCount = 8

// Provisioning is returned by GenerateSecret: the raw secret plus a QR image
// (base64 PNG data URL) for authenticator apps.
type Provisioning struct {
	Secret            string `json:"secret"`
	ProvisioningImage string `json:"provisioningImage"`
}

// VerifyResult reports the outcome of a successful verification.
type VerifyResult struct {
	// BackupCodes is populated only when the verification completed the
	// initial setup; the codes are never retrievable again.
	BackupCodes []string `json:"backupCodes,omitempty"`
	// NextCheck is the unix time until which re-verification is skipped;
	// zero means every login re-checks.
	NextCheck int64 `json:"nextCheck"`
	// UsedBackupCode reports that a one-time code was consumed.
	UsedBackupCode bool `json:"usedBackupCode"`
}

type Manager struct {
	users   UserStore
	codes   BackupCodeStore
	pending kvstore.Store

	issuer      string
	pendingTTL  time.Duration
	rememberFor time.Duration

	now func() time.Time
}

func NewManager(users UserStore, codes BackupCodeStore, pending kvstore.Store, issuer string, pendingTTL, rememberFor time.Duration) *Manager {
	return &Manager{
		users:       users,
		codes:       codes,
		pending:     pending,
		issuer:      issuer,
		pendingTTL:  pendingTTL,
		rememberFor: rememberFor,
		now:         time.Now,
	}
}

// GenerateSecret provisions a new secret for a user whose 2FA is not yet
// enabled, moving them into the SettingUp state. Fails with AlreadyActive
// once 2FA is enabled.
func (m *Manager) GenerateSecret(ctx context.Context, user *models.User) (*Provisioning, error) {
	if user.TwoFactorEnabled {
		return nil, fmt.Errorf("user %s: %w", user.ID, apperrors.ErrTwoFactorAlreadyActive)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      m.issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, err
	}

	if err := m.users.SaveSecret(ctx, user.ID, key.Secret()); err != nil {
		return nil, err
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return &Provisioning{
		Secret:            key.Secret(),
		ProvisioningImage: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// Verify checks code against the stored TOTP secret or, for enabled users,
// against the unused backup codes. During setup it transitions the user to
// Enabled and returns the freshly generated backup-code batch; during login
// verification it computes and persists the remember window.
func (m *Manager) Verify(ctx context.Context, user *models.User, code string, rememberRequested bool) (*VerifyResult, error) {
	if user.TwoFactorSecret == "" {
		return nil, fmt.Errorf("user %s: %w", user.ID, apperrors.ErrTwoFactorNotConfigured)
	}

	matched := totp.Validate(code, user.TwoFactorSecret)
	usedBackup := false
	if !matched && user.TwoFactorEnabled {
		consumed, err := m.codes.Consume(ctx, user.ID, code)
		if err != nil {
			return nil, err
		}
		matched = consumed
		usedBackup = consumed
	}
	if !matched {
		return nil, fmt.Errorf("user %s: %w", user.ID, apperrors.ErrInvalidCode)
	}

	if !user.TwoFactorEnabled {
		// Initial setup completed. The codes are persisted before the enabled
		// flag flips: a failed code write leaves the user still in setup, and
		// a failed flip leaves codes that are inert until a later retry
		// replaces them.
		codes := make([]string, backupCodeCount)
		for i := range codes {
			codes[i] = ident.NewBackupCode()
		}
		if err := m.codes.Replace(ctx, user.ID, codes); err != nil {
			return nil, err
		}
		if err := m.users.Enable(ctx, user.ID); err != nil {
			return nil, err
		}
		return &VerifyResult{BackupCodes: codes}, nil
	}

	next := int64(0)
	if rememberRequested {
		next = m.now().Add(m.rememberFor).Unix()
	}
	if next != user.TwoFactorNextCheck {
		if err := m.users.SetNextCheck(ctx, user.ID, next); err != nil {
			return nil, err
		}
	}
	return &VerifyResult{NextCheck: next, UsedBackupCode: usedBackup}, nil
}

// Disable turns 2FA off for an enabled user after a successful code check,
// wiping the secret and all backup codes.
func (m *Manager) Disable(ctx context.Context, user *models.User, code string) error {
	if !user.TwoFactorEnabled {
		return fmt.Errorf("user %s: %w", user.ID, apperrors.ErrInvalidState)
	}

	matched := totp.Validate(code, user.TwoFactorSecret)
	if !matched {
		consumed, err := m.codes.Consume(ctx, user.ID, code)
		if err != nil {
			return err
		}
		matched = consumed
	}
	if !matched {
		return fmt.Errorf("user %s: %w", user.ID, apperrors.ErrInvalidCode)
	}

	if err := m.codes.DeleteAll(ctx, user.ID); err != nil {
		return err
	}
	return m.users.Disable(ctx, user.ID)
}

// RequiresVerification reports whether a fresh login must pass through the
// pending-2FA state: 2FA enabled and no remember window currently open.
func (m *Manager) RequiresVerification(user *models.User) bool {
	if !user.TwoFactorEnabled {
		return false
	}
	return user.TwoFactorNextCheck <= m.now().Unix()
}
