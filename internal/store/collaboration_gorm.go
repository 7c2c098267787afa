package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vladpirlog/takenote-api-sub000/internal/access"
	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
)

// GormStore implements CollaborationStore on the relational collaborator
// tables. Mutations are expressed as single guarded statements (conditional
// DELETE, upsert) so the invariants hold without a read-modify-write gap.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// WithTx returns a store bound to an open transaction, so entity creation can
// insert the entity row and its OWNER entry atomically.
func (s *GormStore) WithTx(tx *gorm.DB) *GormStore {
	return &GormStore{db: tx}
}

func entityColumn(kind access.EntityKind) string {
	if kind == access.KindNotepad {
		return "notepad_id"
	}
	return "note_id"
}

func (s *GormStore) GetRoles(ctx context.Context, kind access.EntityKind, entityID string, userID uuid.UUID) ([]models.CollaborationRole, error) {
	var roles string
	q := s.db.WithContext(ctx)
	var err error
	switch kind {
	case access.KindNotepad:
		var row models.NotepadCollaborator
		err = q.Where("notepad_id = ? AND user_id = ?", entityID, userID).Take(&row).Error
		roles = row.Roles
	default:
		var row models.NoteCollaborator
		err = q.Where("note_id = ? AND user_id = ?", entityID, userID).Take(&row).Error
		roles = row.Roles
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return models.SplitRoles(roles), nil
}

func (s *GormStore) AddOwner(ctx context.Context, kind access.EntityKind, entityID string, collab Collaborator) error {
	if !collab.hasOwner() {
		collab.Roles = append([]models.CollaborationRole{models.RoleOwner}, collab.Roles...)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		col := entityColumn(kind)
		model := collaboratorModel(kind)
		if err := tx.Model(model).
			Where(fmt.Sprintf("%s = ? AND roles LIKE ?", col), entityID, "%"+string(models.RoleOwner)+"%").
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("entity %s already has an owner: %w", entityID, apperrors.ErrConflict)
		}
		return tx.Create(newCollaboratorRow(kind, entityID, collab)).Error
	})
}

func (s *GormStore) SetCollaborator(ctx context.Context, kind access.EntityKind, entityID string, collab Collaborator) error {
	if collab.hasOwner() {
		return fmt.Errorf("cannot grant OWNER through the collaborator path: %w", apperrors.ErrConflict)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.WithTx(tx).GetRoles(ctx, kind, entityID, collab.UserID)
		if err != nil {
			return err
		}
		for _, r := range current {
			if r == models.RoleOwner {
				return fmt.Errorf("cannot replace the owner's entry: %w", apperrors.ErrConflict)
			}
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: entityColumn(kind)}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username", "email", "roles", "updated_at",
			}),
		}).Create(newCollaboratorRow(kind, entityID, collab)).Error
	})
}

func (s *GormStore) RemoveCollaborator(ctx context.Context, kind access.EntityKind, entityID string, userID uuid.UUID) error {
	col := entityColumn(kind)
	res := s.db.WithContext(ctx).
		Where(fmt.Sprintf("%s = ? AND user_id = ? AND roles NOT LIKE ?", col), entityID, userID, "%"+string(models.RoleOwner)+"%").
		Delete(collaboratorModel(kind))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		roles, err := s.GetRoles(ctx, kind, entityID, userID)
		if err != nil {
			return err
		}
		if len(roles) == 0 {
			return fmt.Errorf("collaborator not found: %w", apperrors.ErrNotFound)
		}
		return fmt.Errorf("cannot remove the owner: %w", apperrors.ErrConflict)
	}
	return nil
}

func (s *GormStore) ListCollaborators(ctx context.Context, kind access.EntityKind, entityID string) ([]Collaborator, error) {
	col := entityColumn(kind)
	q := s.db.WithContext(ctx).
		Where(fmt.Sprintf("%s = ? AND roles NOT LIKE ?", col), entityID, "%"+string(models.RoleOwner)+"%")

	var out []Collaborator
	switch kind {
	case access.KindNotepad:
		var rows []models.NotepadCollaborator
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, Collaborator{UserID: r.UserID, Username: r.Username, Email: r.Email, Roles: models.SplitRoles(r.Roles)})
		}
	default:
		var rows []models.NoteCollaborator
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, Collaborator{UserID: r.UserID, Username: r.Username, Email: r.Email, Roles: models.SplitRoles(r.Roles)})
		}
	}
	return out, nil
}

func collaboratorModel(kind access.EntityKind) interface{} {
	if kind == access.KindNotepad {
		return &models.NotepadCollaborator{}
	}
	return &models.NoteCollaborator{}
}

func newCollaboratorRow(kind access.EntityKind, entityID string, collab Collaborator) interface{} {
	roles := models.JoinRoles(collab.Roles)
	if kind == access.KindNotepad {
		return &models.NotepadCollaborator{
			NotepadID: entityID,
			UserID:    collab.UserID,
			Username:  collab.Username,
			Email:     collab.Email,
			Roles:     roles,
		}
	}
	return &models.NoteCollaborator{
		NoteID:   entityID,
		UserID:   collab.UserID,
		Username: collab.Username,
		Email:    collab.Email,
		Roles:    roles,
	}
}
