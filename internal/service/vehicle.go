package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/dealer-inventory/internal/cache"
	"github.com/pkordes/dealer-inventory/internal/content"
	"github.com/pkordes/dealer-inventory/internal/domain"
	"github.com/pkordes/dealer-inventory/internal/repo"
)

// vinPattern accepts the 17-character VIN alphabet (no I, O or Q).
var vinPattern = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

// firstModelYear is the earliest year a listing may carry.
const firstModelYear = 1886

// VehicleService implements business logic for the inventory.
// Public detail reads go through a read-through cache keyed by slug;
// every write that can change a public detail evicts it.
type VehicleService struct {
	vehicles repo.VehicleRepo
	images   repo.ImageRepo
	slugs    *SlugService
	details  *cache.Loader[domain.VehicleDetail]
	now      func() time.Time
}

// NewVehicleService constructs a VehicleService. details should be shared
// with every other service that evicts public details; wrap cache.Nop when
// no cache is configured.
func NewVehicleService(vehicles repo.VehicleRepo, images repo.ImageRepo, slugs *SlugService, details *cache.Loader[domain.VehicleDetail]) *VehicleService {
	return &VehicleService{
		vehicles: vehicles,
		images:   images,
		slugs:    slugs,
		details:  details,
		now:      time.Now,
	}
}

// Create validates v and persists it together with its slug. A vehicle is
// never stored without a slug: if slug assignment fails, nothing is written.
func (s *VehicleService) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	v = s.applyDefaults(v)
	if err := s.validate(v); err != nil {
		return domain.Vehicle{}, err
	}
	v.ID = uuid.Nil
	v.Slug = ""

	created, err := s.slugs.AssignSlug(ctx, v)
	if err != nil {
		return domain.Vehicle{}, err
	}
	created.Images = []domain.VehicleImage{}
	return created, nil
}

// GetByID returns an active vehicle with its images.
func (s *VehicleService) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.GetByID: %w", err)
	}
	return s.withImages(ctx, v)
}

// GetPublicBySlug returns the public detail for slug. Drafts are reported
// as domain.ErrNotFound.
func (s *VehicleService) GetPublicBySlug(ctx context.Context, slug string) (domain.VehicleDetail, error) {
	detail, err := s.details.GetOrSet(ctx, detailCacheKey(slug), func(ctx context.Context) (domain.VehicleDetail, error) {
		v, err := s.vehicles.FindActiveBySlug(ctx, slug)
		if err != nil {
			return domain.VehicleDetail{}, err
		}
		if v.Status == domain.StatusDraft {
			return domain.VehicleDetail{}, domain.ErrNotFound
		}
		v, err = s.withImages(ctx, v)
		if err != nil {
			return domain.VehicleDetail{}, err
		}
		html, err := content.RenderMarkdown(v.Description)
		if err != nil {
			return domain.VehicleDetail{}, err
		}
		return domain.VehicleDetail{Vehicle: v, DescriptionHTML: html}, nil
	})
	if err != nil {
		return domain.VehicleDetail{}, fmt.Errorf("service.VehicleService.GetPublicBySlug: %w", err)
	}
	return detail, nil
}

// List returns one page of vehicles matching f.
func (s *VehicleService) List(ctx context.Context, f domain.VehicleFilter, p domain.PaginationParams) (domain.Page[domain.Vehicle], error) {
	if f.Sort != "" && !f.Sort.Valid() {
		return domain.Page[domain.Vehicle]{}, fmt.Errorf("%w: unknown sort %q", domain.ErrValidation, f.Sort)
	}
	if f.Condition != "" && !f.Condition.Valid() {
		return domain.Page[domain.Vehicle]{}, fmt.Errorf("%w: unknown condition %q", domain.ErrValidation, f.Condition)
	}
	if f.Status != "" && !f.Status.Valid() {
		return domain.Page[domain.Vehicle]{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, f.Status)
	}
	if f.MinYear > 0 && f.MaxYear > 0 && f.MinYear > f.MaxYear {
		return domain.Page[domain.Vehicle]{}, fmt.Errorf("%w: min_year must not exceed max_year", domain.ErrValidation)
	}

	items, total, err := s.vehicles.List(ctx, f, p)
	if err != nil {
		return domain.Page[domain.Vehicle]{}, fmt.Errorf("service.VehicleService.List: %w", err)
	}
	return newPage(items, total), nil
}

// Update overwrites the descriptive fields of an active vehicle. The slug
// is left alone; RegenerateSlug is the explicit path for re-deriving it.
func (s *VehicleService) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	v = s.applyDefaults(v)
	if err := s.validate(v); err != nil {
		return domain.Vehicle{}, err
	}

	updated, err := s.vehicles.Update(ctx, v)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Update: %w", err)
	}
	s.evict(ctx, updated.Slug)
	return s.withImages(ctx, updated)
}

// Delete soft-deletes a vehicle, releasing its slug, and returns the
// vehicle as it was before deletion.
func (s *VehicleService) Delete(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	before, err := s.vehicles.SoftDelete(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Delete: %w", err)
	}
	s.evict(ctx, before.Slug)
	return before, nil
}

// RegenerateSlug re-derives a vehicle's slug after its year, make or model
// changed.
func (s *VehicleService) RegenerateSlug(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	before, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.RegenerateSlug: %w", err)
	}
	after, err := s.slugs.RegenerateSlug(ctx, id)
	if err != nil {
		return domain.Vehicle{}, err
	}
	s.evict(ctx, before.Slug, after.Slug)
	return s.withImages(ctx, after)
}

// Bulk applies one action to many vehicles. Each id succeeds or fails on
// its own; the returned error is reserved for a malformed request.
func (s *VehicleService) Bulk(ctx context.Context, req domain.BulkRequest) ([]domain.BulkItemResult, error) {
	if len(req.IDs) == 0 {
		return nil, fmt.Errorf("%w: ids must not be empty", domain.ErrValidation)
	}
	if len(req.IDs) > domain.MaxBulkItems {
		return nil, fmt.Errorf("%w: at most %d ids per request", domain.ErrValidation, domain.MaxBulkItems)
	}
	if !req.Action.Valid() {
		return nil, fmt.Errorf("%w: unknown action %q", domain.ErrValidation, req.Action)
	}
	if req.Action == domain.BulkSetStatus && !req.Status.Valid() {
		return nil, fmt.Errorf("%w: set_status requires a valid status", domain.ErrValidation)
	}

	seen := make(map[uuid.UUID]bool, len(req.IDs))
	results := make([]domain.BulkItemResult, 0, len(req.IDs))
	for _, id := range req.IDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		res := domain.BulkItemResult{ID: id, OK: true}
		if err := s.applyBulk(ctx, id, req); err != nil {
			res.OK = false
			res.Error = bulkErrorMessage(err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *VehicleService) applyBulk(ctx context.Context, id uuid.UUID, req domain.BulkRequest) error {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch req.Action {
	case domain.BulkSetStatus:
		err = s.vehicles.SetStatus(ctx, id, req.Status)
	case domain.BulkFeature:
		err = s.vehicles.SetFeatured(ctx, id, true)
	case domain.BulkUnfeature:
		err = s.vehicles.SetFeatured(ctx, id, false)
	case domain.BulkDelete:
		_, err = s.vehicles.SoftDelete(ctx, id)
	}
	if err != nil {
		return err
	}
	s.evict(ctx, v.Slug)
	return nil
}

// bulkErrorMessage keeps per-item errors short and free of internals.
func bulkErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not found"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		return err.Error()
	default:
		return "internal error"
	}
}

func (s *VehicleService) withImages(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	imgs, err := s.images.ListByVehicle(ctx, v.ID)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService: list images: %w", err)
	}
	v.Images = imgs
	return v, nil
}

// evict drops cached public details. A failed eviction is logged; the
// entry then lives until its TTL.
func (s *VehicleService) evict(ctx context.Context, slugs ...string) {
	keys := make([]string, 0, len(slugs))
	for _, sl := range slugs {
		if sl != "" {
			keys = append(keys, detailCacheKey(sl))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.details.Delete(ctx, keys...); err != nil {
		slog.WarnContext(ctx, "vehicle detail cache eviction failed", "keys", keys, "error", err)
	}
}

func (s *VehicleService) applyDefaults(v domain.Vehicle) domain.Vehicle {
	v.Make = strings.TrimSpace(v.Make)
	v.Model = strings.TrimSpace(v.Model)
	v.Trim = strings.TrimSpace(v.Trim)
	v.VIN = strings.ToUpper(strings.TrimSpace(v.VIN))
	if v.Condition == "" {
		v.Condition = domain.ConditionUsed
	}
	if v.Status == "" {
		v.Status = domain.StatusDraft
	}
	return v
}

// validate enforces the rules shared by Create and Update.
func (s *VehicleService) validate(v domain.Vehicle) error {
	if v.Make == "" {
		return fmt.Errorf("%w: make is required", domain.ErrValidation)
	}
	if v.Model == "" {
		return fmt.Errorf("%w: model is required", domain.ErrValidation)
	}
	if maxYear := s.now().Year() + 2; v.Year < firstModelYear || v.Year > maxYear {
		return fmt.Errorf("%w: year must be between %d and %d", domain.ErrValidation, firstModelYear, maxYear)
	}
	if v.Mileage < 0 {
		return fmt.Errorf("%w: mileage must not be negative", domain.ErrValidation)
	}
	if v.PriceCents < 0 {
		return fmt.Errorf("%w: price_cents must not be negative", domain.ErrValidation)
	}
	if !v.Condition.Valid() {
		return fmt.Errorf("%w: unknown condition %q", domain.ErrValidation, v.Condition)
	}
	if !v.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, v.Status)
	}
	if v.VIN != "" && !vinPattern.MatchString(v.VIN) {
		return fmt.Errorf("%w: vin must be 17 characters without I, O or Q", domain.ErrValidation)
	}
	return nil
}
