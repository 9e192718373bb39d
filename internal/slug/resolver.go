package slug

import (
	"context"
	"errors"
	"fmt"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

// DefaultMaxAttempts bounds how many candidates Resolve tries before giving up.
const DefaultMaxAttempts = 100

// Finder looks up active (non-deleted) vehicles by slug.
// It must return domain.ErrNotFound when no active vehicle holds the slug.
type Finder interface {
	FindActiveBySlug(ctx context.Context, slug string) (domain.Vehicle, error)
}

// Resolver picks the first candidate slug not held by an active vehicle.
// It only reads; it never reserves the slug it returns.
type Resolver struct {
	finder      Finder
	maxAttempts int
}

// NewResolver returns a Resolver backed by finder. A maxAttempts of zero or
// less selects DefaultMaxAttempts.
func NewResolver(finder Finder, maxAttempts int) *Resolver {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Resolver{finder: finder, maxAttempts: maxAttempts}
}

// MaxAttempts returns the configured attempt ceiling.
func (r *Resolver) MaxAttempts() int {
	return r.maxAttempts
}

// Resolve returns base if it is free, otherwise base-1, base-2, ... in
// ascending order, issuing one lookup per candidate. After MaxAttempts
// lookups that all hit an active vehicle it returns a
// *domain.SlugExhaustionError. Lookup failures other than
// domain.ErrNotFound are returned as-is.
func (r *Resolver) Resolve(ctx context.Context, base string) (string, error) {
	if !Valid(base) {
		return "", fmt.Errorf("%w: %q is not a normalized slug", domain.ErrValidation, base)
	}

	candidate := base
	for counter := 1; counter <= r.maxAttempts; counter++ {
		_, err := r.finder.FindActiveBySlug(ctx, candidate)
		if errors.Is(err, domain.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("slug.Resolver.Resolve: %w", err)
		}
		candidate = WithSuffix(base, counter)
	}

	return "", &domain.SlugExhaustionError{BaseSlug: base, Attempts: r.maxAttempts}
}
