package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the account-level role of a principal.
type Role string

const (
	RoleUser         Role = "user"
	RoleAdmin        Role = "admin"
	RoleUnidentified Role = "unidentified"
)

// AccountState is the lifecycle state of a user account. It is mutated only
// by account lifecycle operations (confirm, delete, recover).
type AccountState string

const (
	StateUnconfirmed AccountState = "unconfirmed"
	StateActive      AccountState = "active"
	StateDeleting    AccountState = "deleting"
)

// CollaborationRole is a per-entity role. Exactly one collaborator holds
// RoleOwner per entity; the owner entry is only removed with the entity.
type CollaborationRole string

const (
	RoleOwner                 CollaborationRole = "OWNER"
	RolePrimaryCollaborator   CollaborationRole = "PRIMARY_COLLABORATOR"
	RoleSecondaryCollaborator CollaborationRole = "SECONDARY_COLLABORATOR"
	RoleObserver              CollaborationRole = "OBSERVER"
)

// ParseCollaborationRole validates a role string coming off the wire.
func ParseCollaborationRole(s string) (CollaborationRole, bool) {
	switch CollaborationRole(s) {
	case RoleOwner, RolePrimaryCollaborator, RoleSecondaryCollaborator, RoleObserver:
		return CollaborationRole(s), true
	}
	return "", false
}

// JoinRoles and SplitRoles convert between a role set and its comma-joined
// column representation.
func JoinRoles(roles []CollaborationRole) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

func SplitRoles(s string) []CollaborationRole {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	roles := make([]CollaborationRole, 0, len(parts))
	for _, p := range parts {
		roles = append(roles, CollaborationRole(p))
	}
	return roles
}

type User struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Username     string       `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string       `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string       `gorm:"size:255;not null" json:"-"`
	Role         Role         `gorm:"size:20;not null;default:user" json:"role"`
	AccountState AccountState `gorm:"size:20;not null;default:unconfirmed" json:"accountState"`

	// Two-factor lifecycle: secret set + disabled flag = SettingUp,
	// secret set + enabled = Enabled.
	TwoFactorSecret    string `gorm:"size:64" json:"-"`
	TwoFactorEnabled   bool   `gorm:"not null;default:false" json:"twoFactorEnabled"`
	TwoFactorNextCheck int64  `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BackupCode is a one-time two-factor recovery code. Consumption flips Active
// to false exactly once via a guarded update.
type BackupCode struct {
	Code      string    `gorm:"size:16;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}
