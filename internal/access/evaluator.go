package access

import "github.com/vladpirlog/takenote-api-sub000/internal/models"

// Set is a permission set.
type Set map[Permission]struct{}

func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// Mode selects how Authorize combines the required permissions.
type Mode int

const (
	// Any succeeds when at least one required permission is held.
	Any Mode = iota
	// All requires every required permission to be held.
	All
)

// PermissionsFor returns the union of the table's permission sets for each
// role held. An empty role set (principal absent from the entity's user map)
// yields an empty set, so every downstream check fails closed.
func PermissionsFor(kind EntityKind, roles []models.CollaborationRole) Set {
	held := make(Set)
	table := rolePermissions[kind]
	for _, role := range roles {
		for _, p := range table[role] {
			held[p] = struct{}{}
		}
	}
	return held
}

// Authorize answers whether held satisfies required under the given mode.
func Authorize(required []Permission, held Set, mode Mode) bool {
	if len(required) == 0 {
		return false
	}
	switch mode {
	case Any:
		for _, p := range required {
			if held.Has(p) {
				return true
			}
		}
		return false
	default:
		for _, p := range required {
			if !held.Has(p) {
				return false
			}
		}
		return true
	}
}

// CanMoveNote evaluates the compound cross-entity move check: NOTE_MOVE on
// the source note AND, when the destination is a real notepad,
// NOTEPAD_ADD_NOTES on it. destPerms is a callback so the destination's
// roles are never read when the source check already failed.
func CanMoveNote(srcPerms Set, hasDest bool, destPerms func() (Set, error)) (bool, error) {
	if !srcPerms.Has(NoteMove) {
		return false, nil
	}
	if !hasDest {
		return true, nil
	}
	dest, err := destPerms()
	if err != nil {
		return false, err
	}
	return dest.Has(NotepadAddNotes), nil
}
