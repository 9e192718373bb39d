package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

// ImageRepo defines the persistence operations for vehicle images.
type ImageRepo interface {
	// Create appends an image to the end of the vehicle's gallery and returns
	// the persisted record with its assigned position.
	Create(ctx context.Context, img domain.VehicleImage) (domain.VehicleImage, error)

	// ListByVehicle returns a vehicle's images ordered by position.
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.VehicleImage, error)

	// Delete removes one image from a vehicle and returns it so the caller can
	// remove the stored object. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, vehicleID, imageID uuid.UUID) (domain.VehicleImage, error)
}

// pgImageRepo is the Postgres implementation of ImageRepo.
type pgImageRepo struct {
	db db
}

// NewImageRepo constructs an ImageRepo backed by the provided db connection.
func NewImageRepo(db db) ImageRepo {
	return &pgImageRepo{db: db}
}

const imageColumns = `id, vehicle_id, object_key, url, content_type, size_bytes, position, created_at`

// Create computes the next position in the same statement so concurrent
// uploads cannot read a stale maximum.
func (r *pgImageRepo) Create(ctx context.Context, img domain.VehicleImage) (domain.VehicleImage, error) {
	const q = `
		INSERT INTO vehicle_images (vehicle_id, object_key, url, content_type, size_bytes, position)
		SELECT @vehicle_id::uuid, @object_key::text, @url::text, @content_type::text, @size_bytes::bigint,
		       COALESCE(MAX(position), -1) + 1
		FROM vehicle_images WHERE vehicle_id = @vehicle_id
		RETURNING ` + imageColumns

	args := pgx.NamedArgs{
		"vehicle_id":   img.VehicleID,
		"object_key":   img.ObjectKey,
		"url":          img.URL,
		"content_type": img.ContentType,
		"size_bytes":   img.SizeBytes,
	}
	result, err := scanImage(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.VehicleImage{}, fmt.Errorf("repo.ImageRepo.Create: %w", translateErr(err))
	}
	return result, nil
}

func (r *pgImageRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.VehicleImage, error) {
	const q = `SELECT ` + imageColumns + ` FROM vehicle_images WHERE vehicle_id = @vehicle_id ORDER BY position, created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID})
	if err != nil {
		return nil, fmt.Errorf("repo.ImageRepo.ListByVehicle: %w", err)
	}
	images, err := collect(rows, scanImage)
	if err != nil {
		return nil, fmt.Errorf("repo.ImageRepo.ListByVehicle: scan: %w", err)
	}
	return images, nil
}

func (r *pgImageRepo) Delete(ctx context.Context, vehicleID, imageID uuid.UUID) (domain.VehicleImage, error) {
	const q = `
		DELETE FROM vehicle_images
		WHERE id = @id AND vehicle_id = @vehicle_id
		RETURNING ` + imageColumns

	result, err := scanImage(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": imageID, "vehicle_id": vehicleID}))
	if err != nil {
		return domain.VehicleImage{}, fmt.Errorf("repo.ImageRepo.Delete: %w", translateErr(err))
	}
	return result, nil
}

// scanImage maps a single database row into a domain.VehicleImage.
func scanImage(s scanner) (domain.VehicleImage, error) {
	var (
		img       domain.VehicleImage
		id        pgtype.UUID
		vehicleID pgtype.UUID
	)
	err := s.Scan(&id, &vehicleID, &img.ObjectKey, &img.URL, &img.ContentType, &img.SizeBytes, &img.Position, &img.CreatedAt)
	if err != nil {
		return domain.VehicleImage{}, err
	}
	img.ID = uuid.UUID(id.Bytes)
	img.VehicleID = uuid.UUID(vehicleID.Bytes)
	return img, nil
}
