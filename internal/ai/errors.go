package ai

import "errors"

var (
	// ErrNotConfigured means no upstream credential is available.
	ErrNotConfigured = errors.New("ai: api key is not configured")
	// ErrNoText means the upstream reply did not contain a first candidate text.
	ErrNoText = errors.New("ai: upstream response has no text")
)

// ServiceError is a remote transformation failure carrying a human-readable message.
type ServiceError struct {
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
