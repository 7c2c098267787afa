package share

import (
	"context"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vladpirlog/takenote-api-sub000/internal/access"
	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
	"github.com/vladpirlog/takenote-api-sub000/internal/database"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
	"github.com/vladpirlog/takenote-api-sub000/pkg/ident"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createNote(t *testing.T, db *gorm.DB) *models.Note {
	t.Helper()

	note := &models.Note{ID: ident.New(ident.Note), Title: "groceries"}
	require.NoError(t, db.Create(note).Error)
	return note
}

func createNotepad(t *testing.T, db *gorm.DB) *models.Notepad {
	t.Helper()

	notepad := &models.Notepad{ID: ident.New(ident.Notepad), Name: "recipes"}
	require.NoError(t, db.Create(notepad).Error)
	return notepad
}

func boolPtr(b bool) *bool { return &b }

func TestGetOrRotateMintsFirstCode(t *testing.T) {
	db := setupDB(t)
	m := NewManager(db)
	note := createNote(t, db)

	link, err := m.GetOrRotate(context.Background(), access.KindNote, note.ID, nil, false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link.Code, "shr"))
	assert.False(t, link.Active)

	// A second call without forceNew returns the same code.
	again, err := m.GetOrRotate(context.Background(), access.KindNote, note.ID, nil, false)
	require.NoError(t, err)
	assert.Equal(t, link.Code, again.Code)
}

func TestGetOrRotateForceNew(t *testing.T) {
	db := setupDB(t)
	m := NewManager(db)
	note := createNote(t, db)

	first, err := m.GetOrRotate(context.Background(), access.KindNote, note.ID, boolPtr(true), false)
	require.NoError(t, err)

	second, err := m.GetOrRotate(context.Background(), access.KindNote, note.ID, nil, true)
	require.NoError(t, err)
	assert.NotEqual(t, first.Code, second.Code)
	assert.True(t, second.Active, "rotation keeps the active flag")

	// The old code stops resolving immediately.
	_, err = m.ResolveByShareCode(context.Background(), first.Code)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	resolved, err := m.ResolveByShareCode(context.Background(), second.Code)
	require.NoError(t, err)
	assert.Equal(t, note.ID, resolved.Note.ID)
}

func TestGetOrRotateToggleActive(t *testing.T) {
	db := setupDB(t)
	m := NewManager(db)
	note := createNote(t, db)

	link, err := m.GetOrRotate(context.Background(), access.KindNote, note.ID, boolPtr(true), false)
	require.NoError(t, err)
	require.True(t, link.Active)

	off, err := m.GetOrRotate(context.Background(), access.KindNote, note.ID, boolPtr(false), false)
	require.NoError(t, err)
	assert.Equal(t, link.Code, off.Code, "toggling does not rotate")
	assert.False(t, off.Active)

	// Re-enabling keeps the code stable too.
	on, err := m.GetOrRotate(context.Background(), access.KindNote, note.ID, boolPtr(true), false)
	require.NoError(t, err)
	assert.Equal(t, link.Code, on.Code)
}

func TestGetOrRotateToggleDoesNotResurrectRotatedCode(t *testing.T) {
	db := setupDB(t)
	m := NewManager(db)
	note := createNote(t, db)

	first, err := m.GetOrRotate(context.Background(), access.KindNote, note.ID, boolPtr(true), false)
	require.NoError(t, err)

	// A rotation lands between the toggle's read and its write.
	var rotated Link
	interleaved := false
	err = db.Callback().Query().After("gorm:query").Register("rotate_between", func(tx *gorm.DB) {
		if interleaved {
			return
		}
		interleaved = true
		r, rErr := m.GetOrRotate(context.Background(), access.KindNote, note.ID, nil, true)
		require.NoError(t, rErr)
		rotated = r
	})
	require.NoError(t, err)

	_, err = m.GetOrRotate(context.Background(), access.KindNote, note.ID, boolPtr(false), false)
	require.NoError(t, err)
	require.True(t, interleaved)

	var row models.Note
	require.NoError(t, db.Take(&row, "id = ?", note.ID).Error)
	assert.Equal(t, rotated.Code, row.ShareCode, "toggle must not restore the pre-rotation code")
	assert.NotEqual(t, first.Code, row.ShareCode)
	assert.False(t, row.ShareActive)

	// The revoked code stays dead even after re-activation.
	on, err := m.GetOrRotate(context.Background(), access.KindNote, note.ID, boolPtr(true), false)
	require.NoError(t, err)
	assert.Equal(t, rotated.Code, on.Code)
	_, err = m.ResolveByShareCode(context.Background(), first.Code)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetOrRotateUnknownEntity(t *testing.T) {
	db := setupDB(t)
	m := NewManager(db)

	_, err := m.GetOrRotate(context.Background(), access.KindNote, "not000000000000000000000000", nil, false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResolveInactiveCode(t *testing.T) {
	db := setupDB(t)
	m := NewManager(db)
	note := createNote(t, db)

	link, err := m.GetOrRotate(context.Background(), access.KindNote, note.ID, boolPtr(false), false)
	require.NoError(t, err)

	// Indistinguishable from an unknown code.
	_, err = m.ResolveByShareCode(context.Background(), link.Code)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResolveNotepadCode(t *testing.T) {
	db := setupDB(t)
	m := NewManager(db)
	notepad := createNotepad(t, db)

	link, err := m.GetOrRotate(context.Background(), access.KindNotepad, notepad.ID, boolPtr(true), false)
	require.NoError(t, err)

	resolved, err := m.ResolveByShareCode(context.Background(), link.Code)
	require.NoError(t, err)
	assert.Equal(t, access.KindNotepad, resolved.Kind)
	assert.Equal(t, notepad.ID, resolved.Notepad.ID)
	assert.Nil(t, resolved.Note)
}

func TestResolveEmptyCode(t *testing.T) {
	db := setupDB(t)
	m := NewManager(db)

	_, err := m.ResolveByShareCode(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFreshCodeRetriesOnCollision(t *testing.T) {
	db := setupDB(t)
	m := NewManager(db)

	taken := createNote(t, db)
	link, err := m.GetOrRotate(context.Background(), access.KindNote, taken.ID, nil, false)
	require.NoError(t, err)

	// First draw collides with the existing code, second draw is unique.
	unique := ident.New(ident.ShareCode)
	draws := []string{link.Code, unique}
	m.newCode = func() string {
		code := draws[0]
		if len(draws) > 1 {
			draws = draws[1:]
		}
		return code
	}

	note := createNote(t, db)
	got, err := m.GetOrRotate(context.Background(), access.KindNote, note.ID, nil, false)
	require.NoError(t, err)
	assert.Equal(t, unique, got.Code)
}

func TestFreshCodeGivesUpAfterMaxAttempts(t *testing.T) {
	db := setupDB(t)
	m := NewManager(db)

	taken := createNote(t, db)
	link, err := m.GetOrRotate(context.Background(), access.KindNote, taken.ID, nil, false)
	require.NoError(t, err)

	m.newCode = func() string { return link.Code }

	note := createNote(t, db)
	_, err = m.GetOrRotate(context.Background(), access.KindNote, note.ID, nil, false)
	assert.Error(t, err)
}
