package entity

import "errors"

// Error taxonomy shared across the service. Adapters wrap these with
// fmt.Errorf("...: %w", ...) so callers can classify with errors.Is.
var (
	// ErrInvalidRequest marks a submission that fails validation. Not retryable.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound marks a lookup for an unknown job id.
	ErrNotFound = errors.New("not found")
	// ErrUpstreamFailure marks a failed call to an external collaborator
	// (change-context fetch or AI completion).
	ErrUpstreamFailure = errors.New("upstream failure")
)
