package twofactor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
	"github.com/vladpirlog/takenote-api-sub000/internal/kvstore"
	"github.com/vladpirlog/takenote-api-sub000/internal/models"
	"github.com/vladpirlog/takenote-api-sub000/pkg/ident"
)

const pendingPrefix = "2fa:pending:"

// PendingSession is the "password verified, OTP not yet verified" record. It
// lives in the TTL store and is deleted on successful verification, so the
// promotion to a full session is one-shot.
type PendingSession struct {
	ID           string              `json:"id"`
	UserID       uuid.UUID           `json:"userId"`
	Role         models.Role         `json:"role"`
	AccountState models.AccountState `json:"accountState"`
}

// CreatePending stores a pending session for the user and returns its opaque
// id. The record expires on its own if verification never happens.
func (m *Manager) CreatePending(ctx context.Context, user *models.User) (string, error) {
	session := PendingSession{
		ID:           ident.New(ident.PendingTwoFactor),
		UserID:       user.ID,
		Role:         user.Role,
		AccountState: user.AccountState,
	}
	data, err := json.Marshal(session)
	if err != nil {
		return "", err
	}
	if err := m.pending.SetEX(ctx, pendingPrefix+session.ID, string(data), m.pendingTTL); err != nil {
		return "", err
	}
	return session.ID, nil
}

// GetPending fetches a pending session. Expired or unknown ids fail with
// ErrUnauthenticated so the edge answers 401, not 404.
func (m *Manager) GetPending(ctx context.Context, id string) (*PendingSession, error) {
	data, err := m.pending.Get(ctx, pendingPrefix+id)
	if err == kvstore.ErrNotFound {
		return nil, fmt.Errorf("pending session %s: %w", id, apperrors.ErrUnauthenticated)
	}
	if err != nil {
		return nil, err
	}

	var session PendingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// DeletePending removes the record after a successful promotion.
func (m *Manager) DeletePending(ctx context.Context, id string) error {
	return m.pending.Del(ctx, pendingPrefix+id)
}
