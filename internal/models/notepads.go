package models

import (
	"time"

	"github.com/google/uuid"
)

type Notepad struct {
	ID   string `gorm:"size:27;primary_key" json:"id"`
	Name string `gorm:"size:150;not null" json:"name"`

	ShareCode   string `gorm:"size:27;index" json:"-"`
	ShareActive bool   `gorm:"not null;default:false" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NotepadCollaborator maps a user onto a notepad with their role set and an
// identity snapshot.
type NotepadCollaborator struct {
	NotepadID string    `gorm:"size:27;primary_key" json:"notepadId"`
	UserID    uuid.UUID `gorm:"type:uuid;primary_key" json:"userId"`
	Username  string    `gorm:"size:150;not null" json:"username"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Roles     string    `gorm:"size:120;not null" json:"roles"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Notepad Notepad `gorm:"foreignKey:NotepadID" json:"-"`
}
