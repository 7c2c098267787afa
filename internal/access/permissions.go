// Package access holds the static role→permission table and the evaluator
// consulted before every entity mutation.
package access

import "github.com/vladpirlog/takenote-api-sub000/internal/models"

// EntityKind selects which half of the permission table applies.
type EntityKind string

const (
	KindNote    EntityKind = "note"
	KindNotepad EntityKind = "notepad"
)

// Permission is an atomic capability tag. Permissions are derived from
// collaboration roles, never stored.
type Permission string

const (
	NoteView                   Permission = "NOTE_VIEW"
	NoteEditCommonProperties   Permission = "NOTE_EDIT_COMMON_PROPERTIES"
	NoteEditPersonalProperties Permission = "NOTE_EDIT_PERSONAL_PROPERTIES"
	NoteDelete                 Permission = "NOTE_DELETE"
	NoteMove                   Permission = "NOTE_MOVE"
	NoteSharingView            Permission = "NOTE_SHARING_VIEW"
	NoteSharingEdit            Permission = "NOTE_SHARING_EDIT"
	NoteCollaboratorView       Permission = "NOTE_COLLABORATOR_VIEW"
	NoteCollaboratorAdd        Permission = "NOTE_COLLABORATOR_ADD"
	NoteCollaboratorRemove     Permission = "NOTE_COLLABORATOR_REMOVE"

	NotepadView               Permission = "NOTEPAD_VIEW"
	NotepadEdit               Permission = "NOTEPAD_EDIT"
	NotepadDelete             Permission = "NOTEPAD_DELETE"
	NotepadAddNotes           Permission = "NOTEPAD_ADD_NOTES"
	NotepadRemoveNotes        Permission = "NOTEPAD_REMOVE_NOTES"
	NotepadSharingView        Permission = "NOTEPAD_SHARING_VIEW"
	NotepadSharingEdit        Permission = "NOTEPAD_SHARING_EDIT"
	NotepadCollaboratorView   Permission = "NOTEPAD_COLLABORATOR_VIEW"
	NotepadCollaboratorAdd    Permission = "NOTEPAD_COLLABORATOR_ADD"
	NotepadCollaboratorRemove Permission = "NOTEPAD_COLLABORATOR_REMOVE"
)

// rolePermissions is the full static table. Every permission referenced by a
// handler or service must appear under at least one role for its kind, or the
// corresponding check fails closed for everyone.
var rolePermissions = map[EntityKind]map[models.CollaborationRole][]Permission{
	KindNote: {
		models.RoleOwner: {
			NoteView, NoteEditCommonProperties, NoteEditPersonalProperties,
			NoteDelete, NoteMove, NoteSharingView, NoteSharingEdit,
			NoteCollaboratorView, NoteCollaboratorAdd, NoteCollaboratorRemove,
		},
		models.RolePrimaryCollaborator: {
			NoteView, NoteEditCommonProperties, NoteEditPersonalProperties,
			NoteMove, NoteSharingView,
			NoteCollaboratorView, NoteCollaboratorAdd, NoteCollaboratorRemove,
		},
		models.RoleSecondaryCollaborator: {
			NoteView, NoteEditCommonProperties, NoteEditPersonalProperties,
			NoteSharingView, NoteCollaboratorView,
		},
		models.RoleObserver: {
			NoteView, NoteEditPersonalProperties, NoteCollaboratorView,
		},
	},
	KindNotepad: {
		models.RoleOwner: {
			NotepadView, NotepadEdit, NotepadDelete,
			NotepadAddNotes, NotepadRemoveNotes,
			NotepadSharingView, NotepadSharingEdit,
			NotepadCollaboratorView, NotepadCollaboratorAdd, NotepadCollaboratorRemove,
		},
		models.RolePrimaryCollaborator: {
			NotepadView, NotepadEdit,
			NotepadAddNotes, NotepadRemoveNotes,
			NotepadSharingView,
			NotepadCollaboratorView, NotepadCollaboratorAdd, NotepadCollaboratorRemove,
		},
		models.RoleSecondaryCollaborator: {
			NotepadView, NotepadAddNotes,
			NotepadSharingView, NotepadCollaboratorView,
		},
		models.RoleObserver: {
			NotepadView, NotepadCollaboratorView,
		},
	},
}
