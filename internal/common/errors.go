// Package common defines shared sentinel errors used across the Creatuno
// client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Local-store invariant violations.
	ErrServerIDImmutable = errors.New("server id is immutable")
	ErrValidation        = errors.New("validation error")

	// Remote-boundary errors.
	ErrUnavailable = errors.New("backend unavailable")
)
