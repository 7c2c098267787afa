// Package apperrors defines the error taxonomy surfaced by the core to the
// HTTP edge. All of these are recoverable by the caller; store-level failures
// are returned as-is and treated as internal.
package apperrors

import "errors"

var (
	// ErrUnauthenticated covers missing, malformed and expired credentials.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrTokenRevoked is returned when a structurally valid token has been
	// blacklisted (logout or forced invalidation).
	ErrTokenRevoked = errors.New("token revoked")
	// ErrForbidden means the principal is valid but lacks permission.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound covers absent entities, collaborators and share codes.
	// Inactive share codes are intentionally indistinguishable from absent.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers duplicate-owner attempts, removing the owner and
	// replaying a consumed backup code.
	ErrConflict = errors.New("conflict")
	// ErrRateLimited is returned when a sliding-window counter is over limit.
	ErrRateLimited = errors.New("rate limited")
	// ErrInvalidState covers two-factor operations attempted in the wrong
	// lifecycle state.
	ErrInvalidState = errors.New("invalid state")

	// Two-factor specific conditions.
	ErrTwoFactorAlreadyActive = errors.New("two-factor authentication already active")
	ErrTwoFactorNotConfigured = errors.New("two-factor authentication not configured")
	ErrInvalidCode            = errors.New("invalid verification code")
)
