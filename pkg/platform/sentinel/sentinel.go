// Package sentinel holds the infrastructure errors collaborators wrap so the
// registry and transports can classify failures with errors.Is. Input
// validation uses pkg/domain-errors instead.
package sentinel

import "errors"

var (
	// ErrNotFound reports a context or registration the collaborator does not hold.
	ErrNotFound = errors.New("not found")
	// ErrConflict reports an identity or pattern already owned by another registration.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState reports a request that does not fit the current state.
	ErrInvalidState = errors.New("invalid state")
)
