package service

import (
	"context"
	"fmt"

	"github.com/pkordes/dealer-inventory/internal/domain"
	"github.com/pkordes/dealer-inventory/internal/repo"
)

// ExportService assembles the flat inventory export.
type ExportService struct {
	vehicles repo.VehicleRepo
}

// NewExportService constructs an ExportService backed by the vehicle repo.
func NewExportService(vehicles repo.VehicleRepo) *ExportService {
	return &ExportService{vehicles: vehicles}
}

// Export returns one ExportRow per active vehicle, oldest first.
// Always returns a non-nil slice so an empty inventory encodes as [].
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	rows, err := s.vehicles.ExportRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	if rows == nil {
		return []domain.ExportRow{}, nil
	}
	return rows, nil
}
