package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/dealer-inventory/internal/domain"
	"github.com/pkordes/dealer-inventory/internal/repo"
	"github.com/pkordes/dealer-inventory/internal/slug"
)

// SlugService gives vehicles their public slug.
//
// The resolver's lookups are only a hint: two requests can both see the
// same candidate as free. The active-slug unique index decides, and a
// persist rejected with domain.ErrSlugTaken sends the service back to the
// resolver for a fresh candidate, at most MaxAttempts times.
type SlugService struct {
	vehicles repo.VehicleRepo
	resolver *slug.Resolver
}

// NewSlugService constructs a SlugService. maxAttempts <= 0 selects
// slug.DefaultMaxAttempts.
func NewSlugService(vehicles repo.VehicleRepo, maxAttempts int) *SlugService {
	return &SlugService{
		vehicles: vehicles,
		resolver: slug.NewResolver(vehicles, maxAttempts),
	}
}

// AssignSlug derives, resolves and persists a slug for v.
//
// A vehicle without an id is inserted with the slug in one statement; a
// stored vehicle without a slug gets it through a guarded update that never
// overwrites an existing value. A vehicle that already has a slug is
// returned unchanged.
func (s *SlugService) AssignSlug(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	if v.Slug != "" {
		return v, nil
	}

	base, err := slug.Normalize(v.Year, v.Make, v.Model)
	if err != nil {
		return domain.Vehicle{}, err
	}

	persist := func(candidate string) (domain.Vehicle, error) {
		if v.ID == uuid.Nil {
			v.Slug = candidate
			return s.vehicles.Create(ctx, v)
		}
		return s.vehicles.SetSlug(ctx, v.ID, candidate)
	}

	out, err := s.claim(ctx, base, persist)
	if err != nil {
		return domain.Vehicle{}, s.annotate(err, v)
	}
	return out, nil
}

// RegenerateSlug re-derives the slug of an active vehicle from its current
// year, make and model. A slug that already derives from the new base is
// kept, so repeated calls are stable.
func (s *SlugService) RegenerateSlug(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.SlugService.RegenerateSlug: %w", err)
	}

	base, err := slug.Normalize(v.Year, v.Make, v.Model)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if slug.DerivesFrom(v.Slug, base) {
		return v, nil
	}

	out, err := s.claim(ctx, base, func(candidate string) (domain.Vehicle, error) {
		return s.vehicles.ReplaceSlug(ctx, id, candidate)
	})
	if err != nil {
		return domain.Vehicle{}, s.annotate(err, v)
	}
	return out, nil
}

// BackfillMissingSlugs assigns slugs to every stored vehicle that lacks
// one, oldest first. Failures are collected per vehicle and never stop the
// batch; only a failure to list the candidates is returned as an error.
func (s *SlugService) BackfillMissingSlugs(ctx context.Context) (domain.BackfillReport, error) {
	report := domain.BackfillReport{
		Succeeded: []uuid.UUID{},
		Failed:    []domain.BackfillFailure{},
	}

	pending, err := s.vehicles.ListMissingSlugs(ctx)
	if err != nil {
		return report, fmt.Errorf("service.SlugService.BackfillMissingSlugs: %w", err)
	}

	for _, v := range pending {
		if _, err := s.AssignSlug(ctx, v); err != nil {
			report.Failed = append(report.Failed, domain.BackfillFailure{ID: v.ID, Reason: err.Error()})
			continue
		}
		report.Succeeded = append(report.Succeeded, v.ID)
	}
	return report, nil
}

// claim resolves a candidate for base and hands it to persist, retrying
// with a fresh candidate whenever persist reports domain.ErrSlugTaken.
func (s *SlugService) claim(ctx context.Context, base string, persist func(string) (domain.Vehicle, error)) (domain.Vehicle, error) {
	for range s.resolver.MaxAttempts() {
		if err := ctx.Err(); err != nil {
			return domain.Vehicle{}, err
		}

		candidate, err := s.resolver.Resolve(ctx, base)
		if err != nil {
			return domain.Vehicle{}, err
		}

		out, err := persist(candidate)
		if errors.Is(err, domain.ErrSlugTaken) {
			continue
		}
		if err != nil {
			return domain.Vehicle{}, err
		}
		return out, nil
	}
	return domain.Vehicle{}, &domain.SlugExhaustionError{BaseSlug: base, Attempts: s.resolver.MaxAttempts()}
}

// annotate names the vehicle on exhaustion errors and adds the service
// prefix to everything else.
func (s *SlugService) annotate(err error, v domain.Vehicle) error {
	var exhausted *domain.SlugExhaustionError
	if errors.As(err, &exhausted) {
		exhausted.Vehicle = v.Identity()
		return exhausted
	}
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	return fmt.Errorf("service.SlugService: %w", err)
}
