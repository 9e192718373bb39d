package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/dealer-inventory/internal/domain"
	"github.com/pkordes/dealer-inventory/internal/service"
)

func TestExportService_Export(t *testing.T) {
	rows := []domain.ExportRow{
		{ID: "a", Slug: "2021-toyota-camry", ImageCount: 3},
		{ID: "b", Slug: "2019-honda-civic", OpenInquiries: 1},
	}
	svc := service.NewExportService(&mockVehicleRepo{
		exportRows: func(context.Context) ([]domain.ExportRow, error) { return rows, nil },
	})

	got, err := svc.Export(context.Background())

	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestExportService_Export_EmptyInventory(t *testing.T) {
	svc := service.NewExportService(&mockVehicleRepo{
		exportRows: func(context.Context) ([]domain.ExportRow, error) { return nil, nil },
	})

	got, err := svc.Export(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got, "empty inventory must encode as []")
	assert.Empty(t, got)
}

func TestExportService_Export_RepoError(t *testing.T) {
	boom := errors.New("db gone")
	svc := service.NewExportService(&mockVehicleRepo{
		exportRows: func(context.Context) ([]domain.ExportRow, error) { return nil, boom },
	})

	_, err := svc.Export(context.Background())

	assert.ErrorIs(t, err, boom)
}
