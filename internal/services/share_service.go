package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/vladpirlog/takenote-api-sub000/internal/access"
	"github.com/vladpirlog/takenote-api-sub000/internal/events"
	"github.com/vladpirlog/takenote-api-sub000/internal/kafka"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
	"github.com/vladpirlog/takenote-api-sub000/internal/share"
	"github.com/vladpirlog/takenote-api-sub000/internal/store"
	"github.com/vladpirlog/takenote-api-sub000/pkg/logger"
)

// ShareService wraps the share-link manager with permission checks.
type ShareService struct {
	db       *gorm.DB
	collab   store.CollaborationStore
	shares   *share.Manager
	producer *kafka.Producer
}

func NewShareService(db *gorm.DB, collab store.CollaborationStore, shares *share.Manager, producer *kafka.Producer) *ShareService {
	return &ShareService{db: db, collab: collab, shares: shares, producer: producer}
}

func sharePermissions(kind access.EntityKind) (view, edit access.Permission) {
	if kind == access.KindNotepad {
		return access.NotepadSharingView, access.NotepadSharingEdit
	}
	return access.NoteSharingView, access.NoteSharingEdit
}

// GetLink returns the entity's current share link without mutating it. The
// code may be empty when no link was ever issued.
func (s *ShareService) GetLink(ctx context.Context, actor *models.User, kind access.EntityKind, entityID string) (share.Link, error) {
	if err := entityExists(ctx, s.db, kind, entityID); err != nil {
		return share.Link{}, err
	}
	viewPerm, _ := sharePermissions(kind)
	if _, err := requirePermission(ctx, s.collab, kind, entityID, actor.ID, viewPerm); err != nil {
		return share.Link{}, err
	}

	switch kind {
	case access.KindNotepad:
		var notepad models.Notepad
		if err := s.db.WithContext(ctx).Take(&notepad, "id = ?", entityID).Error; err != nil {
			return share.Link{}, err
		}
		return share.Link{Code: notepad.ShareCode, Active: notepad.ShareActive}, nil
	default:
		var note models.Note
		if err := s.db.WithContext(ctx).Take(&note, "id = ?", entityID).Error; err != nil {
			return share.Link{}, err
		}
		return share.Link{Code: note.ShareCode, Active: note.ShareActive}, nil
	}
}

// UpdateLink rotates and/or toggles the entity's share link.
func (s *ShareService) UpdateLink(ctx context.Context, actor *models.User, kind access.EntityKind, entityID string, requestedActive *bool, forceNew bool) (share.Link, error) {
	if err := entityExists(ctx, s.db, kind, entityID); err != nil {
		return share.Link{}, err
	}
	_, editPerm := sharePermissions(kind)
	if _, err := requirePermission(ctx, s.collab, kind, entityID, actor.ID, editPerm); err != nil {
		return share.Link{}, err
	}

	link, err := s.shares.GetOrRotate(ctx, kind, entityID, requestedActive, forceNew)
	if err != nil {
		return share.Link{}, err
	}

	eventType := events.ShareLinkToggled
	if forceNew {
		eventType = events.ShareLinkRotated
	}
	if s.producer != nil {
		event := events.NewEntityEvent(eventType, string(kind), entityID, actor.ID)
		if err := s.producer.PublishEntityEvent(ctx, event); err != nil {
			logger.Log.Error().Err(err).Str("eventType", eventType).Msg("Failed to publish entity event")
		}
	}
	return link, nil
}

// Resolve is the public read path: an active share code resolves to its
// entity, anything else is not found.
func (s *ShareService) Resolve(ctx context.Context, code string) (*share.Resolved, error) {
	return s.shares.ResolveByShareCode(ctx, code)
}
