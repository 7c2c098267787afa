package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
	"github.com/vladpirlog/takenote-api-sub000/internal/auth"
	"github.com/vladpirlog/takenote-api-sub000/internal/events"
	"github.com/vladpirlog/takenote-api-sub000/internal/kafka"
	"github.com/vladpirlog/takenote-api-sub000/internal/kvstore"
	"github.com/vladpirlog/takenote-api-sub000/internal/mailer"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
	"github.com/vladpirlog/takenote-api-sub000/internal/twofactor"
	"github.com/vladpirlog/takenote-api-sub000/pkg/logger"
)

const confirmPrefix = "confirm:"

// SessionResult is what a login-shaped operation hands back: either a full
// session token or a pending-2FA id, never both.
type SessionResult struct {
	Token     string       `json:"token,omitempty"`
	PendingID string       `json:"pendingId,omitempty"`
	User      *models.User `json:"user,omitempty"`

	Claims *auth.Claims `json:"-"`
}

type AuthService struct {
	db        *gorm.DB
	tokens    *auth.TokenManager
	twoFactor *twofactor.Manager
	kv        kvstore.Store

	producer *kafka.Producer
	mail     *mailer.Mailer

	confirmTTL time.Duration
}

func NewAuthService(db *gorm.DB, tokens *auth.TokenManager, twoFactor *twofactor.Manager, kv kvstore.Store, producer *kafka.Producer, mail *mailer.Mailer, confirmTTL time.Duration) *AuthService {
	return &AuthService{
		db:         db,
		tokens:     tokens,
		twoFactor:  twoFactor,
		kv:         kv,
		producer:   producer,
		mail:       mail,
		confirmTTL: confirmTTL,
	}
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Take(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) getUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Take(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user %s: %w", email, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// Register creates an unconfirmed account, mails the confirmation token and
// opens a session right away.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*SessionResult, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		AccountState: models.StateUnconfirmed,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("username or email already registered: %w", apperrors.ErrConflict)
		}
		return nil, err
	}

	if err := s.sendConfirmationToken(ctx, &user); err != nil {
		logger.Log.Error().Err(err).Str("email", email).Msg("Failed to store confirmation token")
	}
	s.publishAccountEvent(ctx, events.UserRegistered, &user)

	token, claims, err := s.tokens.Issue(&user)
	if err != nil {
		return nil, err
	}
	return &SessionResult{Token: token, Claims: claims, User: &user}, nil
}

// Login checks the password and either opens a session or parks the
// principal in the pending-2FA state. The remember window (nextCheckTime) is
// consulted before 2FA is demanded, so a remembered device skips the prompt.
func (s *AuthService) Login(ctx context.Context, email, password string) (*SessionResult, error) {
	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthenticated)
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthenticated)
	}

	if s.twoFactor.RequiresVerification(user) {
		pendingID, err := s.twoFactor.CreatePending(ctx, user)
		if err != nil {
			return nil, err
		}
		return &SessionResult{PendingID: pendingID}, nil
	}

	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &SessionResult{Token: token, Claims: claims, User: user}, nil
}

// CompleteTwoFactorLogin promotes a pending-2FA session to a full one. The
// pending record is deleted on success, so the promotion is one-shot.
func (s *AuthService) CompleteTwoFactorLogin(ctx context.Context, pendingID, code string, remember bool) (*SessionResult, error) {
	pending, err := s.twoFactor.GetPending(ctx, pendingID)
	if err != nil {
		return nil, err
	}
	user, err := s.GetUserByID(ctx, pending.UserID)
	if err != nil {
		return nil, err
	}

	if _, err := s.twoFactor.Verify(ctx, user, code, remember); err != nil {
		return nil, err
	}
	if err := s.twoFactor.DeletePending(ctx, pendingID); err != nil {
		return nil, err
	}

	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &SessionResult{Token: token, Claims: claims, User: user}, nil
}

// Logout blacklists the current token for the remainder of its validity.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	return s.tokens.Revoke(ctx, claims)
}

func (s *AuthService) sendConfirmationToken(ctx context.Context, user *models.User) error {
	token := uuid.NewString()
	if err := s.kv.SetEX(ctx, confirmPrefix+token, user.ID.String(), s.confirmTTL); err != nil {
		return err
	}
	if s.mail != nil {
		s.mail.SendToken(ctx, user.Email, "Confirm your takenote account", token)
	}
	return nil
}

// ResendConfirmation issues a fresh confirmation token for an unconfirmed
// account. Rate limiting of the mail send happens at the edge.
func (s *AuthService) ResendConfirmation(ctx context.Context, email string) error {
	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.AccountState != models.StateUnconfirmed {
		return fmt.Errorf("account already confirmed: %w", apperrors.ErrInvalidState)
	}
	return s.sendConfirmationToken(ctx, user)
}

// ConfirmEmail flips the account to active. When the principal is already
// authenticated their token carries a stale accountState, so the old token is
// blacklisted and a replacement returned in the same response.
func (s *AuthService) ConfirmEmail(ctx context.Context, confirmToken string, current *auth.Claims) (*SessionResult, error) {
	userIDStr, err := s.kv.Get(ctx, confirmPrefix+confirmToken)
	if err == kvstore.ErrNotFound {
		return nil, fmt.Errorf("confirmation token: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.AccountState != models.StateUnconfirmed {
		return nil, fmt.Errorf("account already confirmed: %w", apperrors.ErrInvalidState)
	}

	if err := s.setAccountState(ctx, user, models.StateActive); err != nil {
		return nil, err
	}
	if err := s.kv.Del(ctx, confirmPrefix+confirmToken); err != nil {
		return nil, err
	}
	s.publishAccountEvent(ctx, events.UserConfirmed, user)

	return s.reissueFor(ctx, current, user)
}

// RequestDeletion marks the account for deletion and rotates the session
// token so the stale accountState claim cannot be replayed.
func (s *AuthService) RequestDeletion(ctx context.Context, current *auth.Claims) (*SessionResult, error) {
	user, err := s.currentUser(ctx, current)
	if err != nil {
		return nil, err
	}
	if user.AccountState == models.StateDeleting {
		return nil, fmt.Errorf("deletion already requested: %w", apperrors.ErrInvalidState)
	}

	if err := s.setAccountState(ctx, user, models.StateDeleting); err != nil {
		return nil, err
	}
	s.publishAccountEvent(ctx, events.UserDeletionRequested, user)

	return s.reissueFor(ctx, current, user)
}

// RecoverAccount cancels a pending deletion.
func (s *AuthService) RecoverAccount(ctx context.Context, current *auth.Claims) (*SessionResult, error) {
	user, err := s.currentUser(ctx, current)
	if err != nil {
		return nil, err
	}
	if user.AccountState != models.StateDeleting {
		return nil, fmt.Errorf("account is not marked for deletion: %w", apperrors.ErrInvalidState)
	}

	if err := s.setAccountState(ctx, user, models.StateActive); err != nil {
		return nil, err
	}
	s.publishAccountEvent(ctx, events.UserRecovered, user)

	return s.reissueFor(ctx, current, user)
}

func (s *AuthService) currentUser(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	if claims == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}
	return s.GetUserByID(ctx, userID)
}

func (s *AuthService) setAccountState(ctx context.Context, user *models.User, state models.AccountState) error {
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("account_state", state).Error; err != nil {
		return err
	}
	user.AccountState = state
	return nil
}

func (s *AuthService) reissueFor(ctx context.Context, current *auth.Claims, user *models.User) (*SessionResult, error) {
	if current == nil {
		return &SessionResult{User: user}, nil
	}
	token, claims, err := s.tokens.Reissue(ctx, current, user)
	if err != nil {
		return nil, err
	}
	return &SessionResult{Token: token, Claims: claims, User: user}, nil
}

func (s *AuthService) publishAccountEvent(ctx context.Context, eventType string, user *models.User) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishAccountEvent(ctx, events.NewAccountEvent(eventType, user.ID, user.Email)); err != nil {
		logger.Log.Error().Err(err).Str("eventType", eventType).Msg("Failed to publish account event")
	}
}
