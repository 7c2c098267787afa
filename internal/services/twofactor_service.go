package services

import (
	"context"
	"fmt"

	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
	"github.com/vladpirlog/takenote-api-sub000/internal/auth"
	"github.com/vladpirlog/takenote-api-sub000/internal/events"
	"github.com/vladpirlog/takenote-api-sub000/internal/kafka"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
	"github.com/vladpirlog/takenote-api-sub000/internal/twofactor"
	"github.com/vladpirlog/takenote-api-sub000/pkg/logger"
)

// TwoFactorService exposes the 2FA lifecycle to authenticated principals:
// setup (secret provisioning + activation) and disabling. Login-time
// verification goes through AuthService.CompleteTwoFactorLogin instead.
type TwoFactorService struct {
	auth     *AuthService
	manager  *twofactor.Manager
	producer *kafka.Producer
}

func NewTwoFactorService(authSvc *AuthService, manager *twofactor.Manager, producer *kafka.Producer) *TwoFactorService {
	return &TwoFactorService{auth: authSvc, manager: manager, producer: producer}
}

// Setup provisions a fresh secret, moving the account into the SettingUp
// state. Fails with AlreadyActive once 2FA is enabled.
func (s *TwoFactorService) Setup(ctx context.Context, claims *auth.Claims) (*twofactor.Provisioning, error) {
	user, err := s.auth.currentUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	return s.manager.GenerateSecret(ctx, user)
}

// Activate completes the setup flow: a valid code flips the account to
// Enabled and returns the one-shot backup-code batch. An already-enabled
// account has nothing to activate.
func (s *TwoFactorService) Activate(ctx context.Context, claims *auth.Claims, code string) (*twofactor.VerifyResult, error) {
	user, err := s.auth.currentUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	if user.TwoFactorEnabled {
		return nil, fmt.Errorf("user %s: %w", user.ID, apperrors.ErrTwoFactorAlreadyActive)
	}

	result, err := s.manager.Verify(ctx, user, code, false)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TwoFactorEnabled, user)
	return result, nil
}

// Disable turns 2FA off after a successful code check.
func (s *TwoFactorService) Disable(ctx context.Context, claims *auth.Claims, code string) error {
	user, err := s.auth.currentUser(ctx, claims)
	if err != nil {
		return err
	}
	if err := s.manager.Disable(ctx, user, code); err != nil {
		return err
	}
	s.publish(ctx, events.TwoFactorDisabled, user)
	return nil
}

func (s *TwoFactorService) publish(ctx context.Context, eventType string, user *models.User) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishAccountEvent(ctx, events.NewAccountEvent(eventType, user.ID, user.Email)); err != nil {
		logger.Log.Error().Err(err).Str("eventType", eventType).Str("userId", user.ID.String()).Msg("Failed to publish account event")
	}
}
