package service

import (
	"errors"
	"fmt"

	"github.com/workstreamhq/workstream/internal/store"
)

// ErrUnauthorized is returned when a mutation or query runs without an
// authenticated principal on the context.
var ErrUnauthorized = errors.New("service: no authenticated principal")

// InvariantError reports a request that is well-formed but violates a
// domain rule (accepting an expired invite, say). Not retryable.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "service: " + e.Msg
}

func invariant(format string, args ...any) error {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}

// IsInvariant reports whether err is a domain-rule violation.
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// IsNotFound reports whether err means a referenced document is missing.
func IsNotFound(err error) bool { return store.IsNotFound(err) }

// IsRetryable reports whether err is a serialization conflict the caller
// may retry. The service never retries internally.
func IsRetryable(err error) bool { return errors.Is(err, store.ErrConflict) }
