package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladpirlog/takenote-api-sub000/internal/models"
)

func TestPermissionsForOwner(t *testing.T) {
	held := PermissionsFor(KindNote, []models.CollaborationRole{models.RoleOwner})

	for _, p := range []Permission{
		NoteView, NoteEditCommonProperties, NoteEditPersonalProperties,
		NoteDelete, NoteMove, NoteSharingView, NoteSharingEdit,
		NoteCollaboratorView, NoteCollaboratorAdd, NoteCollaboratorRemove,
	} {
		assert.True(t, held.Has(p), "owner should hold %s", p)
	}
}

func TestPermissionsForObserverNote(t *testing.T) {
	held := PermissionsFor(KindNote, []models.CollaborationRole{models.RoleObserver})

	assert.True(t, held.Has(NoteView))
	assert.True(t, held.Has(NoteEditPersonalProperties))
	assert.True(t, held.Has(NoteCollaboratorView))

	assert.False(t, held.Has(NoteEditCommonProperties))
	assert.False(t, held.Has(NoteDelete))
	assert.False(t, held.Has(NoteMove))
	assert.False(t, held.Has(NoteSharingView))
	assert.False(t, held.Has(NoteCollaboratorAdd))
}

func TestPermissionsForTable(t *testing.T) {
	tests := []struct {
		name  string
		kind  EntityKind
		role  models.CollaborationRole
		has   []Permission
		lacks []Permission
	}{
		{
			name:  "primary collaborator note",
			kind:  KindNote,
			role:  models.RolePrimaryCollaborator,
			has:   []Permission{NoteView, NoteEditCommonProperties, NoteMove, NoteCollaboratorAdd, NoteCollaboratorRemove},
			lacks: []Permission{NoteDelete, NoteSharingEdit},
		},
		{
			name:  "secondary collaborator note",
			kind:  KindNote,
			role:  models.RoleSecondaryCollaborator,
			has:   []Permission{NoteView, NoteEditCommonProperties, NoteSharingView, NoteCollaboratorView},
			lacks: []Permission{NoteMove, NoteDelete, NoteCollaboratorAdd, NoteSharingEdit},
		},
		{
			name:  "secondary collaborator notepad",
			kind:  KindNotepad,
			role:  models.RoleSecondaryCollaborator,
			has:   []Permission{NotepadView, NotepadAddNotes, NotepadSharingView, NotepadCollaboratorView},
			lacks: []Permission{NotepadEdit, NotepadDelete, NotepadRemoveNotes, NotepadCollaboratorAdd},
		},
		{
			name:  "observer notepad",
			kind:  KindNotepad,
			role:  models.RoleObserver,
			has:   []Permission{NotepadView, NotepadCollaboratorView},
			lacks: []Permission{NotepadEdit, NotepadAddNotes, NotepadSharingView},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			held := PermissionsFor(tt.kind, []models.CollaborationRole{tt.role})
			for _, p := range tt.has {
				assert.True(t, held.Has(p), "%s should hold %s", tt.role, p)
			}
			for _, p := range tt.lacks {
				assert.False(t, held.Has(p), "%s should not hold %s", tt.role, p)
			}
		})
	}
}

func TestPermissionsForUnion(t *testing.T) {
	held := PermissionsFor(KindNote, []models.CollaborationRole{
		models.RoleObserver, models.RoleSecondaryCollaborator,
	})

	// Union of both role sets.
	assert.True(t, held.Has(NoteEditPersonalProperties))
	assert.True(t, held.Has(NoteEditCommonProperties))
	assert.True(t, held.Has(NoteSharingView))
	assert.False(t, held.Has(NoteMove))
}

func TestPermissionsForEmptyRolesFailsClosed(t *testing.T) {
	held := PermissionsFor(KindNote, nil)
	assert.Empty(t, held)
	assert.False(t, Authorize([]Permission{NoteView}, held, Any))
}

func TestAuthorizeModes(t *testing.T) {
	held := PermissionsFor(KindNote, []models.CollaborationRole{models.RoleSecondaryCollaborator})

	assert.True(t, Authorize([]Permission{NoteView, NoteDelete}, held, Any))
	assert.False(t, Authorize([]Permission{NoteView, NoteDelete}, held, All))
	assert.True(t, Authorize([]Permission{NoteView, NoteEditCommonProperties}, held, All))
	assert.False(t, Authorize([]Permission{NoteDelete, NoteMove}, held, Any))
}

func TestAuthorizeEmptyRequired(t *testing.T) {
	held := PermissionsFor(KindNote, []models.CollaborationRole{models.RoleOwner})
	assert.False(t, Authorize(nil, held, Any))
	assert.False(t, Authorize(nil, held, All))
}

func TestCanMoveNote(t *testing.T) {
	owner := PermissionsFor(KindNote, []models.CollaborationRole{models.RoleOwner})
	observer := PermissionsFor(KindNote, []models.CollaborationRole{models.RoleObserver})
	padSecondary := PermissionsFor(KindNotepad, []models.CollaborationRole{models.RoleSecondaryCollaborator})
	padObserver := PermissionsFor(KindNotepad, []models.CollaborationRole{models.RoleObserver})

	t.Run("allowed without destination", func(t *testing.T) {
		ok, err := CanMoveNote(owner, false, nil)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("allowed into notepad with add-notes", func(t *testing.T) {
		ok, err := CanMoveNote(owner, true, func() (Set, error) { return padSecondary, nil })
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("denied when destination lacks add-notes", func(t *testing.T) {
		ok, err := CanMoveNote(owner, true, func() (Set, error) { return padObserver, nil })
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("destination never consulted when source fails", func(t *testing.T) {
		called := false
		ok, err := CanMoveNote(observer, true, func() (Set, error) {
			called = true
			return padSecondary, nil
		})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, called)
	})

	t.Run("destination error propagates", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := CanMoveNote(owner, true, func() (Set, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
	})
}
