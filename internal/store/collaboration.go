// Package store provides access to the per-entity user→role maps.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/vladpirlog/takenote-api-sub000/internal/access"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
)

// Collaborator is an entry in an entity's user map: identity snapshot plus
// the role set held.
type Collaborator struct {
	UserID   uuid.UUID                  `json:"userId"`
	Username string                     `json:"username"`
	Email    string                     `json:"email"`
	Roles    []models.CollaborationRole `json:"roles"`
}

func (c Collaborator) hasOwner() bool {
	for _, r := range c.Roles {
		if r == models.RoleOwner {
			return true
		}
	}
	return false
}

// CollaborationStore abstracts the entity user→role maps. Implementations
// must uphold two invariants regardless of backing storage: an entity never
// gains a second OWNER, and the OWNER entry is never removed through the
// collaborator path.
type CollaborationStore interface {
	// GetRoles returns the role set a user holds on an entity; an empty set
	// when the user is absent.
	GetRoles(ctx context.Context, kind access.EntityKind, entityID string, userID uuid.UUID) ([]models.CollaborationRole, error)

	// AddOwner records the OWNER entry at entity creation. Fails with
	// ErrConflict if the entity already has an owner.
	AddOwner(ctx context.Context, kind access.EntityKind, entityID string, collab Collaborator) error

	// SetCollaborator upserts a non-owner entry, replacing any prior role
	// set for that user. Fails with ErrConflict if the role set contains
	// OWNER or the target currently holds OWNER on the entity.
	SetCollaborator(ctx context.Context, kind access.EntityKind, entityID string, collab Collaborator) error

	// RemoveCollaborator deletes a user's entry. Fails with ErrConflict if
	// the target holds OWNER and ErrNotFound if there is no entry.
	RemoveCollaborator(ctx context.Context, kind access.EntityKind, entityID string, userID uuid.UUID) error

	// ListCollaborators returns the entity's entries excluding the OWNER.
	ListCollaborators(ctx context.Context, kind access.EntityKind, entityID string) ([]Collaborator, error)
}
