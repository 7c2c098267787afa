package models

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID      string `gorm:"size:27;primary_key" json:"id"`
	Title   string `gorm:"size:255;not null" json:"title"`
	Content string `gorm:"type:text" json:"content"`
	// NotepadID is empty for notes in the implicit "no notepad" bucket.
	NotepadID string `gorm:"size:27;index" json:"notepadId,omitempty"`

	// Share link state. ShareActive implies a non-empty ShareCode.
	ShareCode   string `gorm:"size:27;index" json:"-"`
	ShareActive bool   `gorm:"not null;default:false" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteCollaborator maps a user onto a note with their role set, an identity
// snapshot taken at share time and the per-user personal fields.
type NoteCollaborator struct {
	NoteID   string    `gorm:"size:27;primary_key" json:"noteId"`
	UserID   uuid.UUID `gorm:"type:uuid;primary_key" json:"userId"`
	Username string    `gorm:"size:150;not null" json:"username"`
	Email    string    `gorm:"size:255;not null" json:"email"`
	Roles    string    `gorm:"size:120;not null" json:"roles"`

	// Personal fields are visible and writable only by this collaborator.
	Tags     string `gorm:"size:512" json:"tags"`
	Archived bool   `gorm:"not null;default:false" json:"archived"`
	Color    string `gorm:"size:32" json:"color"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Note Note `gorm:"foreignKey:NoteID" json:"-"`
}
