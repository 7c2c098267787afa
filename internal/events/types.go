package events

// Account Event Types
const (
	UserRegistered        = "USER_REGISTERED"
	UserConfirmed         = "USER_CONFIRMED"
	UserDeletionRequested = "USER_DELETION_REQUESTED"
	UserRecovered         = "USER_RECOVERED"
	TwoFactorEnabled      = "TWO_FACTOR_ENABLED"
	TwoFactorDisabled     = "TWO_FACTOR_DISABLED"
)

// Entity Event Types
const (
	NoteCreated = "NOTE_CREATED"
	NoteUpdated = "NOTE_UPDATED"
	NoteDeleted = "NOTE_DELETED"
	NoteMoved   = "NOTE_MOVED"

	NotepadCreated = "NOTEPAD_CREATED"
	NotepadUpdated = "NOTEPAD_UPDATED"
	NotepadDeleted = "NOTEPAD_DELETED"

	CollaboratorAdded   = "COLLABORATOR_ADDED"
	CollaboratorRemoved = "COLLABORATOR_REMOVED"

	ShareLinkRotated = "SHARE_LINK_ROTATED"
	ShareLinkToggled = "SHARE_LINK_TOGGLED"
)

// Kafka Topics
const (
	AccountActivityTopic = "account.activity"
	EntityActivityTopic  = "entity.activity"
)
