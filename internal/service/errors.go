package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/AdamBeresnev/racquet-draw/internal/store"
)

// Error kinds surfaced to callers. Services wrap them with a reason.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrState      = errors.New("invalid state")
)

// lookupErr turns a missing row into ErrNotFound naming what was looked up.
func lookupErr(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("load %s: %w", what, err)
}

// writeErr maps store write failures onto the caller-facing kinds.
func writeErr(err error, what string) error {
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return fmt.Errorf("%w: %s already exists", ErrConflict, what)
	case errors.Is(err, store.ErrStale):
		return fmt.Errorf("%w: %s was modified concurrently", ErrConflict, what)
	}
	return fmt.Errorf("save %s: %w", what, err)
}
