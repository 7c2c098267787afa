package events

import (
	"time"

	"github.com/google/uuid"
)

// AccountEvent represents account lifecycle activity.
type AccountEvent struct {
	EventType string    `json:"eventType"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

// EntityEvent represents note/notepad activity, including collaboration and
// sharing changes.
type EntityEvent struct {
	EventType  string    `json:"eventType"`
	EntityKind string    `json:"entityKind"`
	EntityID   string    `json:"entityId"`
	ActorID    string    `json:"actorId"`
	Timestamp  time.Time `json:"timestamp"`
	// Populated for collaboration events.
	TargetUserID *string `json:"targetUserId,omitempty"`
	TargetEmail  *string `json:"targetEmail,omitempty"`
	Roles        *string `json:"roles,omitempty"`
}

// NewAccountEvent creates a new account event.
func NewAccountEvent(eventType string, userID uuid.UUID, email string) *AccountEvent {
	return &AccountEvent{
		EventType: eventType,
		UserID:    userID.String(),
		Email:     email,
		Timestamp: time.Now(),
	}
}

// NewEntityEvent creates a new entity event.
func NewEntityEvent(eventType, entityKind, entityID string, actorID uuid.UUID) *EntityEvent {
	return &EntityEvent{
		EventType:  eventType,
		EntityKind: entityKind,
		EntityID:   entityID,
		ActorID:    actorID.String(),
		Timestamp:  time.Now(),
	}
}

// NewCollaborationEvent creates an entity event describing a collaborator
// change.
func NewCollaborationEvent(eventType, entityKind, entityID string, actorID, targetUserID uuid.UUID, targetEmail, roles string) *EntityEvent {
	event := NewEntityEvent(eventType, entityKind, entityID, actorID)
	target := targetUserID.String()
	event.TargetUserID = &target
	event.TargetEmail = &targetEmail
	event.Roles = &roles
	return event
}
