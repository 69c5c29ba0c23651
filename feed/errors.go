// File: /feed/errors.go
package feed

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the engine. Callers map these to
// transport-level codes; the engine never retries or swallows them.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrAlreadyExists       = errors.New("already exists")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// upstream wraps a store failure so it is never mistaken for an empty
// result.
func upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, op, err)
}
