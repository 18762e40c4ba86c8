// Package errs contains sentinel errors used across layers for stable error
// mapping. Services wrap these with context; the API layer maps each sentinel
// to exactly one HTTP status.
package errs

import "errors"

var (
	// ErrValidation indicates a malformed or missing request field. A single
	// bad record rejects its whole batch; nothing is partially applied.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the requested group, member or resource does not
	// exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the caller is authenticated but not allowed:
	// a non-member reading group data, or a non-admin attempting an
	// admin-only mutation.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates a uniqueness violation, e.g. two users racing to
	// redeem the same state or an email already being registered.
	ErrConflict = errors.New("conflict")

	// ErrUnauthenticated indicates a missing or invalid caller identity.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrStore indicates the backing store was unreachable. The operation is
	// safe to retry as a whole since no partial writes are visible.
	ErrStore = errors.New("store unavailable")
)
