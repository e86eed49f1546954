// Package apperr defines the error taxonomy shared by all layers.
//
// Errors are classified with errors.Is against three sentinels: ErrValidation
// for rejected input (no write happened), ErrNotFound for stale or unknown
// ids, and ErrStorage for gateway failures. Layers wrap these with %w and add
// context on the way up; nothing is swallowed.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

// Storage wraps a gateway failure so callers can classify it with errors.Is.
func Storage(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
