// Package services implements the application flows on top of the access
// evaluator, the collaboration store, the share-link manager and the token
// machinery. Every entity mutation resolves the principal's permissions here
// before touching storage.
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vladpirlog/takenote-api-sub000/internal/access"
	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
	"github.com/vladpirlog/takenote-api-sub000/internal/store"
)

// permissionsOf derives the permissions a user holds on an entity. A user
// absent from the entity's map gets the empty set, failing every check
// closed.
func permissionsOf(ctx context.Context, collab store.CollaborationStore, kind access.EntityKind, entityID string, userID uuid.UUID) (access.Set, error) {
	roles, err := collab.GetRoles(ctx, kind, entityID, userID)
	if err != nil {
		return nil, err
	}
	return access.PermissionsFor(kind, roles), nil
}

// requirePermission is the standard pre-mutation gate.
func requirePermission(ctx context.Context, collab store.CollaborationStore, kind access.EntityKind, entityID string, userID uuid.UUID, required ...access.Permission) (access.Set, error) {
	held, err := permissionsOf(ctx, collab, kind, entityID, userID)
	if err != nil {
		return nil, err
	}
	if !access.Authorize(required, held, access.All) {
		return nil, fmt.Errorf("user %s on %s: %w", userID, entityID, apperrors.ErrForbidden)
	}
	return held, nil
}

func snapshotOf(user *models.User, roles []models.CollaborationRole) store.Collaborator {
	return store.Collaborator{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    roles,
	}
}

// entityExists distinguishes 404 from 403: permission checks on a missing
// entity would fail closed as Forbidden, which leaks existence.
func entityExists(ctx context.Context, db *gorm.DB, kind access.EntityKind, entityID string) error {
	var count int64
	var err error
	switch kind {
	case access.KindNotepad:
		err = db.WithContext(ctx).Model(&models.Notepad{}).Where("id = ?", entityID).Count(&count).Error
	default:
		err = db.WithContext(ctx).Model(&models.Note{}).Where("id = ?", entityID).Count(&count).Error
	}
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%s %s: %w", kind, entityID, apperrors.ErrNotFound)
	}
	return nil
}
