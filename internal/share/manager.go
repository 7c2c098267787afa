// Package share manages the per-entity share links: opaque codes gated by an
// active flag.
package share

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vladpirlog/takenote-api-sub000/internal/access"
	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
	"github.com/vladpirlog/takenote-api-sub000/pkg/ident"
)

// Link is the share state returned to callers.
type Link struct {
	Code   string `json:"code"`
	Active bool   `json:"active"`
}

// Resolved is the outcome of a share-code lookup.
type Resolved struct {
	Kind    access.EntityKind
	Note    *models.Note
	Notepad *models.Notepad
}

type Manager struct {
	db *gorm.DB
	// newCode is swappable in tests to force collisions.
	newCode func() string
}

func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db, newCode: func() string { return ident.New(ident.ShareCode) }}
}

const maxCodeAttempts = 5

// GetOrRotate returns the entity's share link, minting a fresh code when none
// exists yet or forceNew is set. requestedActive, when non-nil, toggles the
// active flag; otherwise the flag is unchanged. Only the columns that changed
// are written, so a toggle never writes a stale code back over a rotation
// that landed in between.
func (m *Manager) GetOrRotate(ctx context.Context, kind access.EntityKind, entityID string, requestedActive *bool, forceNew bool) (Link, error) {
	code, active, err := m.current(ctx, kind, entityID)
	if err != nil {
		return Link{}, err
	}

	updates := map[string]interface{}{}
	if forceNew || code == "" {
		code, err = m.freshCode(ctx, kind)
		if err != nil {
			return Link{}, err
		}
		updates["share_code"] = code
	}
	if requestedActive != nil {
		active = *requestedActive
		updates["share_active"] = active
	}
	if len(updates) == 0 {
		return Link{Code: code, Active: active}, nil
	}

	var res *gorm.DB
	switch kind {
	case access.KindNotepad:
		res = m.db.WithContext(ctx).Model(&models.Notepad{}).Where("id = ?", entityID).Updates(updates)
	default:
		res = m.db.WithContext(ctx).Model(&models.Note{}).Where("id = ?", entityID).Updates(updates)
	}
	if res.Error != nil {
		return Link{}, res.Error
	}
	if res.RowsAffected == 0 {
		return Link{}, fmt.Errorf("entity %s: %w", entityID, apperrors.ErrNotFound)
	}

	return Link{Code: code, Active: active}, nil
}

// ResolveByShareCode looks up an entity by its share code. Inactive codes
// resolve exactly like absent ones so deactivated links are never disclosed.
func (m *Manager) ResolveByShareCode(ctx context.Context, code string) (*Resolved, error) {
	if code == "" {
		return nil, fmt.Errorf("share code: %w", apperrors.ErrNotFound)
	}

	var note models.Note
	err := m.db.WithContext(ctx).
		Where("share_code = ? AND share_active = ?", code, true).
		Take(&note).Error
	if err == nil {
		return &Resolved{Kind: access.KindNote, Note: &note}, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var notepad models.Notepad
	err = m.db.WithContext(ctx).
		Where("share_code = ? AND share_active = ?", code, true).
		Take(&notepad).Error
	if err == nil {
		return &Resolved{Kind: access.KindNotepad, Notepad: &notepad}, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	return nil, fmt.Errorf("share code: %w", apperrors.ErrNotFound)
}

func (m *Manager) current(ctx context.Context, kind access.EntityKind, entityID string) (string, bool, error) {
	switch kind {
	case access.KindNotepad:
		var notepad models.Notepad
		if err := m.db.WithContext(ctx).Take(&notepad, "id = ?", entityID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return "", false, fmt.Errorf("entity %s: %w", entityID, apperrors.ErrNotFound)
			}
			return "", false, err
		}
		return notepad.ShareCode, notepad.ShareActive, nil
	default:
		var note models.Note
		if err := m.db.WithContext(ctx).Take(&note, "id = ?", entityID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return "", false, fmt.Errorf("entity %s: %w", entityID, apperrors.ErrNotFound)
			}
			return "", false, err
		}
		return note.ShareCode, note.ShareActive, nil
	}
}

// freshCode draws codes until one is unused within the entity's collection.
func (m *Manager) freshCode(ctx context.Context, kind access.EntityKind) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := m.newCode()

		var count int64
		var err error
		switch kind {
		case access.KindNotepad:
			err = m.db.WithContext(ctx).Model(&models.Notepad{}).Where("share_code = ?", code).Count(&count).Error
		default:
			err = m.db.WithContext(ctx).Model(&models.Note{}).Where("share_code = ?", code).Count(&count).Error
		}
		if err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique share code after %d attempts", maxCodeAttempts)
}
