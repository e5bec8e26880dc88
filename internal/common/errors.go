package common

import "errors"

// Error taxonomy shared by every layer. Adapter reads signal absence with
// ErrNotFound instead of panicking or inventing zero values; callers check
// with errors.Is and the HTTP layer maps each kind to a status code.
var (
	// ErrNotFound marks a referenced user/chat/message/group/room as absent.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks a mutation attempted by a caller who is not a
	// participant, member or owner of the resource.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict marks an invariant-violating state transition.
	ErrConflict = errors.New("conflict")

	// ErrBackendUnavailable marks a storage backend that failed to
	// initialize. The process keeps running and degrades to this error.
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)
