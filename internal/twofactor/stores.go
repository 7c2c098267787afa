package twofactor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
)

// UserStore is the slice of user persistence the two-factor manager needs.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SaveSecret(ctx context.Context, id uuid.UUID, secret string) error
	Enable(ctx context.Context, id uuid.UUID) error
	SetNextCheck(ctx context.Context, id uuid.UUID, next int64) error
	Disable(ctx context.Context, id uuid.UUID) error
}

// BackupCodeStore persists the one-time recovery codes. Consume must be
// exactly-once: two concurrent submissions of the same code succeed at most
// once.
type BackupCodeStore interface {
	Replace(ctx context.Context, userID uuid.UUID, codes []string) error
	Consume(ctx context.Context, userID uuid.UUID, code string) (bool, error)
	DeleteAll(ctx context.Context, userID uuid.UUID) error
}

type gormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) UserStore {
	return &gormUserStore{db: db}
}

func (s *gormUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Take(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (s *gormUserStore) SaveSecret(ctx context.Context, id uuid.UUID, secret string) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("two_factor_secret", secret).Error
}

func (s *gormUserStore) Enable(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("two_factor_enabled", true).Error
}

func (s *gormUserStore) SetNextCheck(ctx context.Context, id uuid.UUID, next int64) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("two_factor_next_check", next).Error
}

func (s *gormUserStore) Disable(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"two_factor_secret":     "",
			"two_factor_enabled":    false,
			"two_factor_next_check": 0,
		}).Error
}

type gormBackupCodeStore struct {
	db *gorm.DB
}

func NewGormBackupCodeStore(db *gorm.DB) BackupCodeStore {
	return &gormBackupCodeStore{db: db}
}

func (s *gormBackupCodeStore) Replace(ctx context.Context, userID uuid.UUID, codes []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.BackupCode{}).Error; err != nil {
			return err
		}
		rows := make([]models.BackupCode, len(codes))
		for i, code := range codes {
			rows[i] = models.BackupCode{Code: code, UserID: userID, Active: true}
		}
		return tx.Create(&rows).Error
	})
}

// Consume deactivates the code with a guarded UPDATE so a replayed or raced
// submission observes zero affected rows.
func (s *gormBackupCodeStore) Consume(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.BackupCode{}).
		Where("user_id = ? AND code = ? AND active = ?", userID, code, true).
		Update("active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *gormBackupCodeStore) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.BackupCode{}).Error
}
