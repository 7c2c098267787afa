package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/vladpirlog/takenote-api-sub000/internal/access"
	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
	"github.com/vladpirlog/takenote-api-sub000/internal/events"
	"github.com/vladpirlog/takenote-api-sub000/internal/kafka"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
	"github.com/vladpirlog/takenote-api-sub000/internal/store"
	"github.com/vladpirlog/takenote-api-sub000/pkg/ident"
	"github.com/vladpirlog/takenote-api-sub000/pkg/logger"
)

// NotepadView is a notepad with the requesting collaborator's role set and
// the notes it contains.
type NotepadView struct {
	models.Notepad
	Roles []models.CollaborationRole `json:"roles"`
	Notes []models.Note              `json:"notes,omitempty"`
}

type NotepadService struct {
	db       *gorm.DB
	collab   *store.GormStore
	producer *kafka.Producer
}

func NewNotepadService(db *gorm.DB, collab *store.GormStore, producer *kafka.Producer) *NotepadService {
	return &NotepadService{db: db, collab: collab, producer: producer}
}

// Create inserts a notepad and its OWNER entry atomically.
func (s *NotepadService) Create(ctx context.Context, actor *models.User, name string) (*NotepadView, error) {
	notepad := models.Notepad{
		ID:   ident.New(ident.Notepad),
		Name: name,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&notepad).Error; err != nil {
			return err
		}
		return s.collab.WithTx(tx).AddOwner(ctx, access.KindNotepad, notepad.ID, snapshotOf(actor, nil))
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEntityEvent(events.NotepadCreated, string(access.KindNotepad), notepad.ID, actor.ID))
	return s.view(ctx, actor, &notepad, false)
}

// Get returns the notepad and its notes.
func (s *NotepadService) Get(ctx context.Context, actor *models.User, notepadID string) (*NotepadView, error) {
	notepad, err := s.load(ctx, notepadID)
	if err != nil {
		return nil, err
	}
	if _, err := requirePermission(ctx, s.collab, access.KindNotepad, notepadID, actor.ID, access.NotepadView); err != nil {
		return nil, err
	}
	return s.view(ctx, actor, notepad, true)
}

// ListForUser returns every notepad the user collaborates on.
func (s *NotepadService) ListForUser(ctx context.Context, actor *models.User) ([]NotepadView, error) {
	var rows []models.NotepadCollaborator
	if err := s.db.WithContext(ctx).Where("user_id = ?", actor.ID).Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]NotepadView, 0, len(rows))
	for _, row := range rows {
		var notepad models.Notepad
		if err := s.db.WithContext(ctx).Take(&notepad, "id = ?", row.NotepadID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return nil, err
		}
		views = append(views, NotepadView{Notepad: notepad, Roles: models.SplitRoles(row.Roles)})
	}
	return views, nil
}

// Update renames the notepad.
func (s *NotepadService) Update(ctx context.Context, actor *models.User, notepadID, name string) (*NotepadView, error) {
	notepad, err := s.load(ctx, notepadID)
	if err != nil {
		return nil, err
	}
	if _, err := requirePermission(ctx, s.collab, access.KindNotepad, notepadID, actor.ID, access.NotepadEdit); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&models.Notepad{}).
		Where("id = ?", notepadID).
		Update("name", name).Error; err != nil {
		return nil, err
	}
	notepad.Name = name

	s.publish(ctx, events.NewEntityEvent(events.NotepadUpdated, string(access.KindNotepad), notepadID, actor.ID))
	return s.view(ctx, actor, notepad, false)
}

// Delete removes the notepad and its collaborator entries; the notes it held
// move to the no-notepad bucket instead of being destroyed.
func (s *NotepadService) Delete(ctx context.Context, actor *models.User, notepadID string) error {
	if _, err := s.load(ctx, notepadID); err != nil {
		return err
	}
	if _, err := requirePermission(ctx, s.collab, access.KindNotepad, notepadID, actor.ID, access.NotepadDelete); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Note{}).
			Where("notepad_id = ?", notepadID).
			Update("notepad_id", "").Error; err != nil {
			return err
		}
		if err := tx.Where("notepad_id = ?", notepadID).Delete(&models.NotepadCollaborator{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Notepad{}, "id = ?", notepadID).Error
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.NewEntityEvent(events.NotepadDeleted, string(access.KindNotepad), notepadID, actor.ID))
	return nil
}

func (s *NotepadService) load(ctx context.Context, notepadID string) (*models.Notepad, error) {
	var notepad models.Notepad
	if err := s.db.WithContext(ctx).Take(&notepad, "id = ?", notepadID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("notepad %s: %w", notepadID, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &notepad, nil
}

func (s *NotepadService) view(ctx context.Context, actor *models.User, notepad *models.Notepad, withNotes bool) (*NotepadView, error) {
	roles, err := s.collab.GetRoles(ctx, access.KindNotepad, notepad.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	view := &NotepadView{Notepad: *notepad, Roles: roles}

	if withNotes {
		if err := s.db.WithContext(ctx).
			Where("notepad_id = ?", notepad.ID).
			Find(&view.Notes).Error; err != nil {
			return nil, err
		}
	}
	return view, nil
}

func (s *NotepadService) publish(ctx context.Context, event *events.EntityEvent) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishEntityEvent(ctx, event); err != nil {
		logger.Log.Error().Err(err).Str("eventType", event.EventType).Msg("Failed to publish entity event")
	}
}
