package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

// VehicleRepo defines the persistence operations for Vehicles.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the services to be unit-tested with a mock.
//
// Every method that writes a slug returns domain.ErrSlugTaken when the
// active-slug unique index rejects it; callers pick another candidate.
type VehicleRepo interface {
	// Create inserts a new vehicle, including its slug, and returns the
	// persisted record with DB-generated id and timestamps.
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)

	// GetByID retrieves an active vehicle by primary key.
	// Returns domain.ErrNotFound if it does not exist or is soft-deleted.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)

	// FindActiveBySlug returns the non-deleted vehicle holding slug.
	// Returns domain.ErrNotFound when the slug is free.
	FindActiveBySlug(ctx context.Context, slug string) (domain.Vehicle, error)

	// List returns one page of vehicles matching f and the total match count.
	List(ctx context.Context, f domain.VehicleFilter, p domain.PaginationParams) ([]domain.Vehicle, int64, error)

	// Update overwrites the mutable descriptive fields of an active vehicle.
	// The slug is never touched. Returns domain.ErrNotFound if absent.
	Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)

	// SoftDelete stamps deleted_at on an active vehicle and returns the row
	// as it was just before deletion. Returns domain.ErrNotFound if absent.
	SoftDelete(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)

	// SetSlug assigns slug to a vehicle that has none yet. A vehicle that
	// already holds a slug is left untouched and domain.ErrNotFound is returned.
	SetSlug(ctx context.Context, id uuid.UUID, slug string) (domain.Vehicle, error)

	// ReplaceSlug overwrites the slug of an active vehicle.
	ReplaceSlug(ctx context.Context, id uuid.UUID, slug string) (domain.Vehicle, error)

	// ListMissingSlugs returns every stored vehicle without a slug, deleted
	// or not, ordered by created_at then id.
	ListMissingSlugs(ctx context.Context) ([]domain.Vehicle, error)

	// SetStatus changes the status of an active vehicle.
	SetStatus(ctx context.Context, id uuid.UUID, status domain.VehicleStatus) error

	// SetFeatured toggles the featured flag of an active vehicle.
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error

	// ExportRows returns one flat row per active vehicle ordered by created_at.
	ExportRows(ctx context.Context) ([]domain.ExportRow, error)
}

// pgVehicleRepo is the Postgres implementation of VehicleRepo.
type pgVehicleRepo struct {
	db db
}

// NewVehicleRepo constructs a VehicleRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewVehicleRepo(db db) VehicleRepo {
	return &pgVehicleRepo{db: db}
}

// vehicleColumns is the SELECT/RETURNING list scanVehicle expects.
const vehicleColumns = `id, slug, make, model, year, trim_level, vin, mileage, price_cents,
	condition, status, body_type, transmission, fuel_type, exterior_color,
	description, featured, deleted_at, created_at, updated_at`

func (r *pgVehicleRepo) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	const q = `
		INSERT INTO vehicles (slug, make, model, year, trim_level, vin, mileage, price_cents,
			condition, status, body_type, transmission, fuel_type, exterior_color,
			description, featured)
		VALUES (@slug, @make, @model, @year, @trim, @vin, @mileage, @price_cents,
			@condition, @status, @body_type, @transmission, @fuel_type, @exterior_color,
			@description, @featured)
		RETURNING ` + vehicleColumns

	args := vehicleArgs(v)
	args["slug"] = nullIfEmpty(v.Slug) // a missing slug becomes NULL

	result, err := scanVehicle(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Create: %w", translateErr(err))
	}
	return result, nil
}

func (r *pgVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = @id AND deleted_at IS NULL`

	result, err := scanVehicle(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.GetByID: %w", translateErr(err))
	}
	return result, nil
}

func (r *pgVehicleRepo) FindActiveBySlug(ctx context.Context, slug string) (domain.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE slug = @slug AND deleted_at IS NULL`

	result, err := scanVehicle(r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug}))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.FindActiveBySlug: %w", translateErr(err))
	}
	return result, nil
}

// List builds its WHERE clause from the non-zero fields of f. Only
// whitelisted ORDER BY fragments from vehicleOrderBy reach the SQL text.
func (r *pgVehicleRepo) List(ctx context.Context, f domain.VehicleFilter, p domain.PaginationParams) ([]domain.Vehicle, int64, error) {
	where, args := vehicleWhere(f)

	var total int64
	countQ := `SELECT COUNT(*) FROM vehicles WHERE ` + where
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.VehicleRepo.List: count: %w", err)
	}

	args["limit"] = p.Limit
	args["offset"] = p.Offset()
	q := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE ` + where +
		` ORDER BY ` + vehicleOrderBy(f.Sort) + ` LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.VehicleRepo.List: %w", err)
	}
	vehicles, err := collect(rows, scanVehicle)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.VehicleRepo.List: scan: %w", err)
	}
	return vehicles, total, nil
}

func (r *pgVehicleRepo) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	const q = `
		UPDATE vehicles
		SET make           = @make,
		    model          = @model,
		    year           = @year,
		    trim_level     = @trim,
		    vin            = @vin,
		    mileage        = @mileage,
		    price_cents    = @price_cents,
		    condition      = @condition,
		    status         = @status,
		    body_type      = @body_type,
		    transmission   = @transmission,
		    fuel_type      = @fuel_type,
		    exterior_color = @exterior_color,
		    description    = @description,
		    featured       = @featured,
		    updated_at     = now()
		WHERE id = @id AND deleted_at IS NULL
		RETURNING ` + vehicleColumns

	args := vehicleArgs(v)
	args["id"] = v.ID

	result, err := scanVehicle(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Update: %w", translateErr(err))
	}
	return result, nil
}

// SoftDelete uses a CTE so the returned row carries the pre-delete state
// (deleted_at still NULL) for audit snapshots.
func (r *pgVehicleRepo) SoftDelete(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	const q = `
		WITH prev AS (
			SELECT ` + vehicleColumns + ` FROM vehicles
			WHERE id = @id AND deleted_at IS NULL
			FOR UPDATE
		), upd AS (
			UPDATE vehicles SET deleted_at = now(), updated_at = now()
			WHERE id IN (SELECT id FROM prev)
		)
		SELECT ` + vehicleColumns + ` FROM prev`

	result, err := scanVehicle(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.SoftDelete: %w", translateErr(err))
	}
	return result, nil
}

func (r *pgVehicleRepo) SetSlug(ctx context.Context, id uuid.UUID, slug string) (domain.Vehicle, error) {
	const q = `
		UPDATE vehicles SET slug = @slug, updated_at = now()
		WHERE id = @id AND slug IS NULL
		RETURNING ` + vehicleColumns

	result, err := scanVehicle(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "slug": slug}))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.SetSlug: %w", translateErr(err))
	}
	return result, nil
}

func (r *pgVehicleRepo) ReplaceSlug(ctx context.Context, id uuid.UUID, slug string) (domain.Vehicle, error) {
	const q = `
		UPDATE vehicles SET slug = @slug, updated_at = now()
		WHERE id = @id AND deleted_at IS NULL
		RETURNING ` + vehicleColumns

	result, err := scanVehicle(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "slug": slug}))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.ReplaceSlug: %w", translateErr(err))
	}
	return result, nil
}

func (r *pgVehicleRepo) ListMissingSlugs(ctx context.Context) ([]domain.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE slug IS NULL ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.ListMissingSlugs: %w", err)
	}
	vehicles, err := collect(rows, scanVehicle)
	if err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.ListMissingSlugs: scan: %w", err)
	}
	return vehicles, nil
}

func (r *pgVehicleRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.VehicleStatus) error {
	const q = `
		UPDATE vehicles SET status = @status, updated_at = now()
		WHERE id = @id AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)})
	if err != nil {
		return fmt.Errorf("repo.VehicleRepo.SetStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.VehicleRepo.SetStatus: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgVehicleRepo) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	const q = `
		UPDATE vehicles SET featured = @featured, updated_at = now()
		WHERE id = @id AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "featured": featured})
	if err != nil {
		return fmt.Errorf("repo.VehicleRepo.SetFeatured: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.VehicleRepo.SetFeatured: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgVehicleRepo) ExportRows(ctx context.Context) ([]domain.ExportRow, error) {
	const q = `
		SELECT v.id, COALESCE(v.slug, ''), v.year, v.make, v.model, v.trim_level, v.vin,
		       v.mileage, v.price_cents, v.condition, v.status, v.featured,
		       (SELECT COUNT(*) FROM vehicle_images i WHERE i.vehicle_id = v.id),
		       (SELECT COUNT(*) FROM inquiries q WHERE q.vehicle_id = v.id AND q.status <> 'closed'),
		       v.created_at
		FROM vehicles v
		WHERE v.deleted_at IS NULL
		ORDER BY v.created_at, v.id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.ExportRows: %w", err)
	}
	out, err := collect(rows, func(s scanner) (domain.ExportRow, error) {
		var (
			row domain.ExportRow
			id  pgtype.UUID
		)
		err := s.Scan(&id, &row.Slug, &row.Year, &row.Make, &row.Model, &row.Trim, &row.VIN,
			&row.Mileage, &row.PriceCents, &row.Condition, &row.Status, &row.Featured,
			&row.ImageCount, &row.OpenInquiries, &row.CreatedAt)
		row.ID = uuid.UUID(id.Bytes).String()
		return row, err
	})
	if err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.ExportRows: scan: %w", err)
	}
	return out, nil
}

// vehicleArgs maps the writable fields of v onto named query arguments.
func vehicleArgs(v domain.Vehicle) pgx.NamedArgs {
	return pgx.NamedArgs{
		"make":           v.Make,
		"model":          v.Model,
		"year":           v.Year,
		"trim":           v.Trim,
		"vin":            v.VIN,
		"mileage":        v.Mileage,
		"price_cents":    v.PriceCents,
		"condition":      string(v.Condition),
		"status":         string(v.Status),
		"body_type":      v.BodyType,
		"transmission":   v.Transmission,
		"fuel_type":      v.FuelType,
		"exterior_color": v.ExteriorColor,
		"description":    v.Description,
		"featured":       v.Featured,
	}
}

// vehicleWhere turns a filter into a WHERE clause and its named arguments.
func vehicleWhere(f domain.VehicleFilter) (string, pgx.NamedArgs) {
	var (
		conds = []string{"TRUE"}
		args  = pgx.NamedArgs{}
	)
	if !f.IncludeDeleted || f.PublicOnly {
		conds = append(conds, "deleted_at IS NULL")
	}
	if f.PublicOnly {
		conds = append(conds, "status <> 'draft'", "slug IS NOT NULL")
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		conds = append(conds, "(make ILIKE '%' || @q || '%' OR model ILIKE '%' || @q || '%' OR trim_level ILIKE '%' || @q || '%')")
		args["q"] = q
	}
	if f.Make != "" {
		conds = append(conds, "lower(make) = lower(@make)")
		args["make"] = f.Make
	}
	if f.Model != "" {
		conds = append(conds, "lower(model) = lower(@model)")
		args["model"] = f.Model
	}
	if f.MinYear > 0 {
		conds = append(conds, "year >= @min_year")
		args["min_year"] = f.MinYear
	}
	if f.MaxYear > 0 {
		conds = append(conds, "year <= @max_year")
		args["max_year"] = f.MaxYear
	}
	if f.MinPriceCents > 0 {
		conds = append(conds, "price_cents >= @min_price")
		args["min_price"] = f.MinPriceCents
	}
	if f.MaxPriceCents > 0 {
		conds = append(conds, "price_cents <= @max_price")
		args["max_price"] = f.MaxPriceCents
	}
	if f.Condition != "" {
		conds = append(conds, "condition = @condition")
		args["condition"] = string(f.Condition)
	}
	if f.Status != "" {
		conds = append(conds, "status = @status")
		args["status"] = string(f.Status)
	}
	if f.BodyType != "" {
		conds = append(conds, "lower(body_type) = lower(@body_type)")
		args["body_type"] = f.BodyType
	}
	if f.Featured != nil {
		conds = append(conds, "featured = @featured")
		args["featured"] = *f.Featured
	}
	return strings.Join(conds, " AND "), args
}

// vehicleOrderBy maps a sort name to a fixed ORDER BY fragment.
// Unknown values fall back to newest first.
func vehicleOrderBy(s domain.VehicleSort) string {
	switch s {
	case domain.SortPriceAsc:
		return "price_cents ASC, id"
	case domain.SortPriceDesc:
		return "price_cents DESC, id"
	case domain.SortYearDesc:
		return "year DESC, created_at DESC, id"
	case domain.SortMileage:
		return "mileage ASC, id"
	default:
		return "featured DESC, created_at DESC, id"
	}
}

// nullIfEmpty returns nil for "" so pgx writes NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// scanVehicle maps a single database row into a domain.Vehicle.
// It handles the UUID, nullable slug and nullable deleted_at conversions.
func scanVehicle(s scanner) (domain.Vehicle, error) {
	var (
		v         domain.Vehicle
		id        pgtype.UUID
		slug      pgtype.Text
		condition string
		status    string
		deletedAt pgtype.Timestamptz
	)

	err := s.Scan(&id, &slug, &v.Make, &v.Model, &v.Year, &v.Trim, &v.VIN, &v.Mileage, &v.PriceCents,
		&condition, &status, &v.BodyType, &v.Transmission, &v.FuelType, &v.ExteriorColor,
		&v.Description, &v.Featured, &deletedAt, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return domain.Vehicle{}, err
	}

	v.ID = uuid.UUID(id.Bytes)
	v.Slug = slug.String // "" when NULL
	v.Condition = domain.VehicleCondition(condition)
	v.Status = domain.VehicleStatus(status)
	if deletedAt.Valid {
		t := deletedAt.Time
		v.DeletedAt = &t
	}
	return v, nil
}
