package writedesk

import "errors"

// Error kinds used across the store and services. Handlers classify failures
// with errors.Is instead of matching message text, so every error that crosses
// the HTTP boundary wraps exactly one of these sentinels (or none, in which
// case it is treated as an internal failure).
var (
	// ErrNotFound means a referenced post or settings row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness rule was violated, e.g. a taken slug.
	ErrConflict = errors.New("conflict")

	// ErrValidation means the input was malformed or breaks a business rule.
	ErrValidation = errors.New("invalid input")
)
