package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladpirlog/takenote-api-sub000/internal/access"
	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
)

func TestCollaborationAdd(t *testing.T) {
	e := newEnv(t)
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")

	note, err := e.notes.Create(context.Background(), alice, "plan", "", "")
	require.NoError(t, err)

	added, err := e.collabs.Add(context.Background(), alice, access.KindNote, note.ID,
		bob.Email, []models.CollaborationRole{models.RoleObserver})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, added.UserID)
	assert.Equal(t, "bob", added.Username)

	got, err := e.notes.Get(context.Background(), bob, note.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.CollaborationRole{models.RoleObserver}, got.Roles)
}

func TestCollaborationAddReplacesRoles(t *testing.T) {
	e := newEnv(t)
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")

	note, err := e.notes.Create(context.Background(), alice, "plan", "", "")
	require.NoError(t, err)

	_, err = e.collabs.Add(context.Background(), alice, access.KindNote, note.ID,
		bob.Email, []models.CollaborationRole{models.RoleObserver})
	require.NoError(t, err)

	_, err = e.collabs.Add(context.Background(), alice, access.KindNote, note.ID,
		bob.Email, []models.CollaborationRole{models.RolePrimaryCollaborator})
	require.NoError(t, err)

	got, err := e.notes.Get(context.Background(), bob, note.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.CollaborationRole{models.RolePrimaryCollaborator}, got.Roles)
}

func TestCollaborationAddPermissions(t *testing.T) {
	e := newEnv(t)
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")
	carol := e.createUser(t, "carol")

	note, err := e.notes.Create(context.Background(), alice, "plan", "", "")
	require.NoError(t, err)

	// Secondary collaborators may not invite on notes.
	e.addToNote(t, note.ID, bob, models.RoleSecondaryCollaborator)
	_, err = e.collabs.Add(context.Background(), bob, access.KindNote, note.ID,
		carol.Email, []models.CollaborationRole{models.RoleObserver})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Primary collaborators may.
	e.addToNote(t, note.ID, bob, models.RolePrimaryCollaborator)
	_, err = e.collabs.Add(context.Background(), bob, access.KindNote, note.ID,
		carol.Email, []models.CollaborationRole{models.RoleObserver})
	require.NoError(t, err)
}

func TestCollaborationAddUnknownTargets(t *testing.T) {
	e := newEnv(t)
	alice := e.createUser(t, "alice")

	note, err := e.notes.Create(context.Background(), alice, "plan", "", "")
	require.NoError(t, err)

	_, err = e.collabs.Add(context.Background(), alice, access.KindNote, note.ID,
		"ghost@example.com", []models.CollaborationRole{models.RoleObserver})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = e.collabs.Add(context.Background(), alice, access.KindNote, "not000000000000000000000000",
		alice.Email, []models.CollaborationRole{models.RoleObserver})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCollaborationAddCannotGrantOwner(t *testing.T) {
	e := newEnv(t)
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")

	note, err := e.notes.Create(context.Background(), alice, "plan", "", "")
	require.NoError(t, err)

	_, err = e.collabs.Add(context.Background(), alice, access.KindNote, note.ID,
		bob.Email, []models.CollaborationRole{models.RoleOwner})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCollaborationRemove(t *testing.T) {
	e := newEnv(t)
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")

	note, err := e.notes.Create(context.Background(), alice, "plan", "", "")
	require.NoError(t, err)
	e.addToNote(t, note.ID, bob, models.RoleObserver)

	require.NoError(t, e.collabs.Remove(context.Background(), alice, access.KindNote, note.ID, bob.ID))

	_, err = e.notes.Get(context.Background(), bob, note.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCollaborationSelfRemoval(t *testing.T) {
	e := newEnv(t)
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")

	note, err := e.notes.Create(context.Background(), alice, "plan", "", "")
	require.NoError(t, err)

	// Observers hold no remove permission but may always leave.
	e.addToNote(t, note.ID, bob, models.RoleObserver)
	require.NoError(t, e.collabs.Remove(context.Background(), bob, access.KindNote, note.ID, bob.ID))
}

func TestCollaborationRemovePermissions(t *testing.T) {
	e := newEnv(t)
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")
	carol := e.createUser(t, "carol")

	note, err := e.notes.Create(context.Background(), alice, "plan", "", "")
	require.NoError(t, err)
	e.addToNote(t, note.ID, bob, models.RoleObserver)
	e.addToNote(t, note.ID, carol, models.RoleObserver)

	err = e.collabs.Remove(context.Background(), bob, access.KindNote, note.ID, carol.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCollaborationRemoveOwnerRejected(t *testing.T) {
	e := newEnv(t)
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")

	note, err := e.notes.Create(context.Background(), alice, "plan", "", "")
	require.NoError(t, err)
	e.addToNote(t, note.ID, bob, models.RolePrimaryCollaborator)

	err = e.collabs.Remove(context.Background(), bob, access.KindNote, note.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCollaborationList(t *testing.T) {
	e := newEnv(t)
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")
	mallory := e.createUser(t, "mallory")

	note, err := e.notes.Create(context.Background(), alice, "plan", "", "")
	require.NoError(t, err)
	e.addToNote(t, note.ID, bob, models.RoleObserver)

	// Observers can see the collaborator list; the owner is not in it.
	list, err := e.collabs.List(context.Background(), bob, access.KindNote, note.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, bob.ID, list[0].UserID)

	_, err = e.collabs.List(context.Background(), mallory, access.KindNote, note.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
