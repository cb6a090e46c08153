package engine

import "errors"

// Error taxonomy surfaced by the engine and the registry. Callers match with
// errors.Is; nothing here is ever collapsed into a generic failure.
var (
	ErrNotFound             = errors.New("entity not found")
	ErrConflict             = errors.New("active dispute already exists for transaction")
	ErrInvalidTransition    = errors.New("status transition not permitted")
	ErrUnauthorized         = errors.New("actor lacks required role")
	ErrStaleState           = errors.New("dispute status changed since it was read")
	ErrTransportUnavailable = errors.New("registry unavailable")
)
