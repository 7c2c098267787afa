package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vladpirlog/takenote-api-sub000/internal/access"
	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
	"github.com/vladpirlog/takenote-api-sub000/internal/events"
	"github.com/vladpirlog/takenote-api-sub000/internal/kafka"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
	"github.com/vladpirlog/takenote-api-sub000/internal/store"
	"github.com/vladpirlog/takenote-api-sub000/pkg/logger"
)

// CollaborationService manages the user→role maps of both entity kinds.
type CollaborationService struct {
	db       *gorm.DB
	collab   store.CollaborationStore
	producer *kafka.Producer
}

func NewCollaborationService(db *gorm.DB, collab store.CollaborationStore, producer *kafka.Producer) *CollaborationService {
	return &CollaborationService{db: db, collab: collab, producer: producer}
}

func collabPermissions(kind access.EntityKind) (add, remove, view access.Permission) {
	if kind == access.KindNotepad {
		return access.NotepadCollaboratorAdd, access.NotepadCollaboratorRemove, access.NotepadCollaboratorView
	}
	return access.NoteCollaboratorAdd, access.NoteCollaboratorRemove, access.NoteCollaboratorView
}

// Add upserts a collaborator entry for the user behind targetEmail,
// replacing any role set they already held. Granting OWNER or touching the
// owner's entry is rejected by the store.
func (s *CollaborationService) Add(ctx context.Context, actor *models.User, kind access.EntityKind, entityID, targetEmail string, roles []models.CollaborationRole) (*store.Collaborator, error) {
	if err := entityExists(ctx, s.db, kind, entityID); err != nil {
		return nil, err
	}
	addPerm, _, _ := collabPermissions(kind)
	if _, err := requirePermission(ctx, s.collab, kind, entityID, actor.ID, addPerm); err != nil {
		return nil, err
	}

	var target models.User
	if err := s.db.WithContext(ctx).Take(&target, "email = ?", targetEmail).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user %s: %w", targetEmail, apperrors.ErrNotFound)
		}
		return nil, err
	}

	collab := snapshotOf(&target, roles)
	if err := s.collab.SetCollaborator(ctx, kind, entityID, collab); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewCollaborationEvent(
		events.CollaboratorAdded, string(kind), entityID,
		actor.ID, target.ID, target.Email, models.JoinRoles(roles),
	))
	return &collab, nil
}

// Remove deletes a collaborator's entry. The owner cannot be removed through
// this path; a collaborator may always remove themselves.
func (s *CollaborationService) Remove(ctx context.Context, actor *models.User, kind access.EntityKind, entityID string, targetUserID uuid.UUID) error {
	if err := entityExists(ctx, s.db, kind, entityID); err != nil {
		return err
	}
	if actor.ID != targetUserID {
		_, removePerm, _ := collabPermissions(kind)
		if _, err := requirePermission(ctx, s.collab, kind, entityID, actor.ID, removePerm); err != nil {
			return err
		}
	}

	if err := s.collab.RemoveCollaborator(ctx, kind, entityID, targetUserID); err != nil {
		return err
	}

	event := events.NewEntityEvent(events.CollaboratorRemoved, string(kind), entityID, actor.ID)
	target := targetUserID.String()
	event.TargetUserID = &target
	s.publish(ctx, event)
	return nil
}

// List returns the entity's collaborators, excluding the owner.
func (s *CollaborationService) List(ctx context.Context, actor *models.User, kind access.EntityKind, entityID string) ([]store.Collaborator, error) {
	if err := entityExists(ctx, s.db, kind, entityID); err != nil {
		return nil, err
	}
	_, _, viewPerm := collabPermissions(kind)
	if _, err := requirePermission(ctx, s.collab, kind, entityID, actor.ID, viewPerm); err != nil {
		return nil, err
	}
	return s.collab.ListCollaborators(ctx, kind, entityID)
}

func (s *CollaborationService) publish(ctx context.Context, event *events.EntityEvent) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishEntityEvent(ctx, event); err != nil {
		logger.Log.Error().Err(err).Str("eventType", event.EventType).Msg("Failed to publish entity event")
	}
}
