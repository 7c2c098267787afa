package services

import (
	"context"
	"fmt"
	"strings"

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

// NoteView is a note merged with the requesting collaborator's role set and
// personal fields.
type NoteView struct {
	models.Note
	Roles    []models.CollaborationRole `json:"roles"`
	Tags     []string                   `json:"tags"`
	Archived bool                       `json:"archived"`
	Color    string                     `json:"color,omitempty"`
}

// NotePatch carries a partial update. Fields the principal may not edit are
// dropped from the write, not rejected.
type NotePatch struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Tags     *[]string `json:"tags"`
	Archived *bool     `json:"archived"`
	Color    *string   `json:"color"`
}

func (p NotePatch) hasCommon() bool {
	return p.Title != nil || p.Content != nil
}

func (p NotePatch) hasPersonal() bool {
	return p.Tags != nil || p.Archived != nil || p.Color != nil
}

type NoteService struct {
	db       *gorm.DB
	collab   *store.GormStore
	producer *kafka.Producer
}

func NewNoteService(db *gorm.DB, collab *store.GormStore, producer *kafka.Producer) *NoteService {
	return &NoteService{db: db, collab: collab, producer: producer}
}

// Create inserts a note and its OWNER entry atomically. Creating directly
// inside a notepad requires NOTEPAD_ADD_NOTES on it.
func (s *NoteService) Create(ctx context.Context, actor *models.User, title, content, notepadID string) (*NoteView, error) {
	if notepadID != "" {
		if err := entityExists(ctx, s.db, access.KindNotepad, notepadID); err != nil {
			return nil, err
		}
		if _, err := requirePermission(ctx, s.collab, access.KindNotepad, notepadID, actor.ID, access.NotepadAddNotes); err != nil {
			return nil, err
		}
	}

	note := models.Note{
		ID:        ident.New(ident.Note),
		Title:     title,
		Content:   content,
		NotepadID: notepadID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&note).Error; err != nil {
			return err
		}
		return s.collab.WithTx(tx).AddOwner(ctx, access.KindNote, note.ID, snapshotOf(actor, nil))
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEntityEvent(events.NoteCreated, string(access.KindNote), note.ID, actor.ID))
	return s.view(ctx, actor, &note)
}

// Get returns the note with the caller's personal fields merged in.
func (s *NoteService) Get(ctx context.Context, actor *models.User, noteID string) (*NoteView, error) {
	note, err := s.load(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if _, err := requirePermission(ctx, s.collab, access.KindNote, noteID, actor.ID, access.NoteView); err != nil {
		return nil, err
	}
	return s.view(ctx, actor, note)
}

// ListForUser returns every note the user collaborates on.
func (s *NoteService) ListForUser(ctx context.Context, actor *models.User) ([]NoteView, error) {
	var rows []models.NoteCollaborator
	if err := s.db.WithContext(ctx).Where("user_id = ?", actor.ID).Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]NoteView, 0, len(rows))
	for _, row := range rows {
		var note models.Note
		if err := s.db.WithContext(ctx).Take(&note, "id = ?", row.NoteID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return nil, err
		}
		views = append(views, mergeView(&note, &row))
	}
	return views, nil
}

// Update applies a patch field-by-field: common properties need
// NOTE_EDIT_COMMON_PROPERTIES, personal properties need
// NOTE_EDIT_PERSONAL_PROPERTIES, and whatever the principal may not write is
// silently dropped. Only a patch with no applicable field at all is
// forbidden.
func (s *NoteService) Update(ctx context.Context, actor *models.User, noteID string, patch NotePatch) (*NoteView, error) {
	note, err := s.load(ctx, noteID)
	if err != nil {
		return nil, err
	}
	held, err := permissionsOf(ctx, s.collab, access.KindNote, noteID, actor.ID)
	if err != nil {
		return nil, err
	}

	canCommon := held.Has(access.NoteEditCommonProperties)
	canPersonal := held.Has(access.NoteEditPersonalProperties)
	applyCommon := canCommon && patch.hasCommon()
	applyPersonal := canPersonal && patch.hasPersonal()
	if !applyCommon && !applyPersonal {
		return nil, fmt.Errorf("user %s on %s: %w", actor.ID, noteID, apperrors.ErrForbidden)
	}

	if applyCommon {
		updates := map[string]interface{}{}
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.Content != nil {
			updates["content"] = *patch.Content
		}
		if err := s.db.WithContext(ctx).Model(&models.Note{}).Where("id = ?", noteID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	if applyPersonal {
		updates := map[string]interface{}{}
		if patch.Tags != nil {
			updates["tags"] = strings.Join(*patch.Tags, ",")
		}
		if patch.Archived != nil {
			updates["archived"] = *patch.Archived
		}
		if patch.Color != nil {
			updates["color"] = *patch.Color
		}
		if err := s.db.WithContext(ctx).Model(&models.NoteCollaborator{}).
			Where("note_id = ? AND user_id = ?", noteID, actor.ID).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events.NewEntityEvent(events.NoteUpdated, string(access.KindNote), noteID, actor.ID))

	note, err = s.load(ctx, noteID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, actor, note)
}

// Delete removes the note together with its collaborator entries.
func (s *NoteService) Delete(ctx context.Context, actor *models.User, noteID string) error {
	if _, err := s.load(ctx, noteID); err != nil {
		return err
	}
	if _, err := requirePermission(ctx, s.collab, access.KindNote, noteID, actor.ID, access.NoteDelete); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", noteID).Delete(&models.NoteCollaborator{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Note{}, "id = ?", noteID).Error
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.NewEntityEvent(events.NoteDeleted, string(access.KindNote), noteID, actor.ID))
	return nil
}

// Move reassigns the note's notepad. The compound check requires NOTE_MOVE
// on the note and, unless the destination is the no-notepad bucket,
// NOTEPAD_ADD_NOTES on the destination — evaluated lazily so a failed source
// check never reads the destination.
func (s *NoteService) Move(ctx context.Context, actor *models.User, noteID, destNotepadID string) (*NoteView, error) {
	note, err := s.load(ctx, noteID)
	if err != nil {
		return nil, err
	}
	hasDest := destNotepadID != ""
	if hasDest {
		if err := entityExists(ctx, s.db, access.KindNotepad, destNotepadID); err != nil {
			return nil, err
		}
	}

	srcPerms, err := permissionsOf(ctx, s.collab, access.KindNote, noteID, actor.ID)
	if err != nil {
		return nil, err
	}
	allowed, err := access.CanMoveNote(srcPerms, hasDest, func() (access.Set, error) {
		return permissionsOf(ctx, s.collab, access.KindNotepad, destNotepadID, actor.ID)
	})
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("user %s moving %s: %w", actor.ID, noteID, apperrors.ErrForbidden)
	}

	if err := s.db.WithContext(ctx).Model(&models.Note{}).
		Where("id = ?", noteID).
		Update("notepad_id", destNotepadID).Error; err != nil {
		return nil, err
	}
	note.NotepadID = destNotepadID

	s.publish(ctx, events.NewEntityEvent(events.NoteMoved, string(access.KindNote), noteID, actor.ID))
	return s.view(ctx, actor, note)
}

func (s *NoteService) load(ctx context.Context, noteID string) (*models.Note, error) {
	var note models.Note
	if err := s.db.WithContext(ctx).Take(&note, "id = ?", noteID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("note %s: %w", noteID, apperrors.ErrNotFound)
		}
		return nil, err
	}
	return &note, nil
}

func (s *NoteService) view(ctx context.Context, actor *models.User, note *models.Note) (*NoteView, error) {
	var row models.NoteCollaborator
	err := s.db.WithContext(ctx).
		Where("note_id = ? AND user_id = ?", note.ID, actor.ID).
		Take(&row).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	view := mergeView(note, &row)
	return &view, nil
}

func mergeView(note *models.Note, row *models.NoteCollaborator) NoteView {
	view := NoteView{
		Note:     *note,
		Roles:    models.SplitRoles(row.Roles),
		Archived: row.Archived,
		Color:    row.Color,
		Tags:     []string{},
	}
	if row.Tags != "" {
		view.Tags = strings.Split(row.Tags, ",")
	}
	return view
}

func (s *NoteService) publish(ctx context.Context, event *events.EntityEvent) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishEntityEvent(ctx, event); err != nil {
		logger.Log.Error().Err(err).Str("eventType", event.EventType).Msg("Failed to publish entity event")
	}
}
