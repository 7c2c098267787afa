package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vladpirlog/takenote-api-sub000/internal/access"
	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
)

type entityKey struct {
	kind access.EntityKind
	id   string
}

// MemoryStore is an in-process CollaborationStore used by tests.
type MemoryStore struct {
	mu       sync.Mutex
	entities map[entityKey]map[uuid.UUID]Collaborator
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entities: make(map[entityKey]map[uuid.UUID]Collaborator)}
}

func (s *MemoryStore) users(kind access.EntityKind, entityID string) map[uuid.UUID]Collaborator {
	key := entityKey{kind: kind, id: entityID}
	if s.entities[key] == nil {
		s.entities[key] = make(map[uuid.UUID]Collaborator)
	}
	return s.entities[key]
}

func (s *MemoryStore) GetRoles(ctx context.Context, kind access.EntityKind, entityID string, userID uuid.UUID) ([]models.CollaborationRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collab, ok := s.users(kind, entityID)[userID]
	if !ok {
		return nil, nil
	}
	return collab.Roles, nil
}

func (s *MemoryStore) AddOwner(ctx context.Context, kind access.EntityKind, entityID string, collab Collaborator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.users(kind, entityID)
	for _, existing := range users {
		if existing.hasOwner() {
			return fmt.Errorf("entity %s already has an owner: %w", entityID, apperrors.ErrConflict)
		}
	}
	if !collab.hasOwner() {
		collab.Roles = append([]models.CollaborationRole{models.RoleOwner}, collab.Roles...)
	}
	users[collab.UserID] = collab
	return nil
}

func (s *MemoryStore) SetCollaborator(ctx context.Context, kind access.EntityKind, entityID string, collab Collaborator) error {
	if collab.hasOwner() {
		return fmt.Errorf("cannot grant OWNER through the collaborator path: %w", apperrors.ErrConflict)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.users(kind, entityID)
	if existing, ok := users[collab.UserID]; ok && existing.hasOwner() {
		return fmt.Errorf("cannot replace the owner's entry: %w", apperrors.ErrConflict)
	}
	users[collab.UserID] = collab
	return nil
}

func (s *MemoryStore) RemoveCollaborator(ctx context.Context, kind access.EntityKind, entityID string, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.users(kind, entityID)
	existing, ok := users[userID]
	if !ok {
		return fmt.Errorf("collaborator not found: %w", apperrors.ErrNotFound)
	}
	if existing.hasOwner() {
		return fmt.Errorf("cannot remove the owner: %w", apperrors.ErrConflict)
	}
	delete(users, userID)
	return nil
}

func (s *MemoryStore) ListCollaborators(ctx context.Context, kind access.EntityKind, entityID string) ([]Collaborator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Collaborator
	for _, collab := range s.users(kind, entityID) {
		if collab.hasOwner() {
			continue
		}
		out = append(out, collab)
	}
	return out, nil
}
