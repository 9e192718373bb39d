package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/dealer-inventory/internal/cache"
	"github.com/pkordes/dealer-inventory/internal/domain"
	"github.com/pkordes/dealer-inventory/internal/repo"
)

// ObjectStore is the subset of storage.S3 the image service needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// imageTypes maps accepted sniffed content types to file extensions.
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageService manages vehicle photos. With a nil ObjectStore every
// operation fails with domain.ErrStorageDisabled.
type ImageService struct {
	vehicles repo.VehicleRepo
	images   repo.ImageRepo
	store    ObjectStore
	details  cache.Cache[domain.VehicleDetail]
	maxBytes int64
}

// NewImageService constructs an ImageService.
func NewImageService(vehicles repo.VehicleRepo, images repo.ImageRepo, store ObjectStore, details cache.Cache[domain.VehicleDetail], maxBytes int64) *ImageService {
	return &ImageService{vehicles: vehicles, images: images, store: store, details: details, maxBytes: maxBytes}
}

// Upload stores body as a new photo at the end of the vehicle's gallery.
// The content type is sniffed from the bytes, never taken from the client.
func (s *ImageService) Upload(ctx context.Context, vehicleID uuid.UUID, body io.ReadSeeker, size int64) (domain.VehicleImage, error) {
	if s.store == nil {
		return domain.VehicleImage{}, domain.ErrStorageDisabled
	}
	if size <= 0 {
		return domain.VehicleImage{}, fmt.Errorf("%w: file is empty", domain.ErrValidation)
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return domain.VehicleImage{}, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrValidation, s.maxBytes)
	}

	v, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return domain.VehicleImage{}, fmt.Errorf("service.ImageService.Upload: %w", err)
	}

	contentType, err := sniff(body)
	if err != nil {
		return domain.VehicleImage{}, fmt.Errorf("service.ImageService.Upload: %w", err)
	}
	ext, ok := imageTypes[contentType]
	if !ok {
		return domain.VehicleImage{}, fmt.Errorf("%w: unsupported image type %q", domain.ErrValidation, contentType)
	}

	key := fmt.Sprintf("vehicles/%s/%s%s", vehicleID, uuid.New(), ext)
	if err := s.store.Put(ctx, key, body, size, contentType); err != nil {
		return domain.VehicleImage{}, fmt.Errorf("service.ImageService.Upload: %w", err)
	}

	img, err := s.images.Create(ctx, domain.VehicleImage{
		VehicleID:   vehicleID,
		ObjectKey:   key,
		URL:         s.store.URL(key),
		ContentType: contentType,
		SizeBytes:   size,
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "orphaned image object", "key", key, "error", delErr)
		}
		return domain.VehicleImage{}, fmt.Errorf("service.ImageService.Upload: %w", err)
	}

	s.evict(ctx, v.Slug)
	return img, nil
}

// Remove detaches an image from a vehicle and deletes the stored object.
// The object is deleted after the row, so a failure leaves an orphaned
// object rather than a broken link.
func (s *ImageService) Remove(ctx context.Context, vehicleID, imageID uuid.UUID) (domain.VehicleImage, error) {
	if s.store == nil {
		return domain.VehicleImage{}, domain.ErrStorageDisabled
	}
	v, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return domain.VehicleImage{}, fmt.Errorf("service.ImageService.Remove: %w", err)
	}

	img, err := s.images.Delete(ctx, vehicleID, imageID)
	if err != nil {
		return domain.VehicleImage{}, fmt.Errorf("service.ImageService.Remove: %w", err)
	}
	if err := s.store.Delete(ctx, img.ObjectKey); err != nil {
		slog.WarnContext(ctx, "orphaned image object", "key", img.ObjectKey, "error", err)
	}

	s.evict(ctx, v.Slug)
	return img, nil
}

func (s *ImageService) evict(ctx context.Context, slug string) {
	if slug == "" {
		return
	}
	if err := s.details.Delete(ctx, detailCacheKey(slug)); err != nil {
		slog.WarnContext(ctx, "vehicle detail cache eviction failed", "slug", slug, "error", err)
	}
}

// sniff reads up to 512 bytes to detect the content type and rewinds body.
func sniff(body io.ReadSeeker) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	return http.DetectContentType(head[:n]), nil
}
