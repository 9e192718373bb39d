package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing make, non-positive year).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write collides with a uniqueness rule the
// caller is expected to fix (e.g. a VIN already used by an active vehicle).
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrSlugTaken is returned by the repo when an insert or update is rejected by
// the active-slug unique index. The slug service recovers from it by resolving
// the next free candidate; it should never reach a handler.
var ErrSlugTaken = errors.New("slug already taken")

// ErrSlugExhausted is the sentinel wrapped by SlugExhaustionError.
var ErrSlugExhausted = errors.New("slug candidates exhausted")

// ErrStorageDisabled is returned by image operations when no object storage
// is configured.
var ErrStorageDisabled = errors.New("object storage not configured")

// SlugExhaustionError reports that every candidate for BaseSlug up to the
// attempt ceiling was already in use. Vehicle is a human-readable identity of
// the listing being assigned (id or "year make model") and may be empty when
// the error comes straight from the resolver.
type SlugExhaustionError struct {
	BaseSlug string
	Vehicle  string
	Attempts int
}

func (e *SlugExhaustionError) Error() string {
	if e.Vehicle == "" {
		return fmt.Sprintf("%s: base %q after %d attempts", ErrSlugExhausted, e.BaseSlug, e.Attempts)
	}
	return fmt.Sprintf("%s: base %q for vehicle %s after %d attempts", ErrSlugExhausted, e.BaseSlug, e.Vehicle, e.Attempts)
}

// Unwrap lets errors.Is(err, ErrSlugExhausted) match.
func (e *SlugExhaustionError) Unwrap() error {
	return ErrSlugExhausted
}
