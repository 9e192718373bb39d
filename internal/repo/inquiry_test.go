package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/dealer-inventory/internal/domain"
	"github.com/pkordes/dealer-inventory/internal/repo"
	"github.com/pkordes/dealer-inventory/testutil"
)

func inquiryFixture(vehicleID *uuid.UUID) domain.Inquiry {
	return domain.Inquiry{
		VehicleID: vehicleID,
		Name:      "Dana Buyer",
		Email:     "dana@example.com",
		Message:   "Is this still available?",
		Status:    domain.InquiryNew,
	}
}

func TestInquiryRepo_Create(t *testing.T) {
	tx := testutil.NewTx(t)
	vehicles := repo.NewVehicleRepo(tx)
	inquiries := repo.NewInquiryRepo(tx)
	ctx := context.Background()

	v, err := vehicles.Create(ctx, vehicleFixture("2021-toyota-camry"))
	require.NoError(t, err)

	got, err := inquiries.Create(ctx, inquiryFixture(&v.ID))

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	require.NotNil(t, got.VehicleID)
	assert.Equal(t, v.ID, *got.VehicleID)
	assert.Equal(t, domain.InquiryNew, got.Status)
}

func TestInquiryRepo_Create_General(t *testing.T) {
	inquiries := repo.NewInquiryRepo(testutil.NewTx(t))

	got, err := inquiries.Create(context.Background(), inquiryFixture(nil))

	require.NoError(t, err)
	assert.Nil(t, got.VehicleID)
}

func TestInquiryRepo_ListAndUpdateStatus(t *testing.T) {
	inquiries := repo.NewInquiryRepo(testutil.NewTx(t))
	ctx := context.Background()

	a, err := inquiries.Create(ctx, inquiryFixture(nil))
	require.NoError(t, err)
	_, err = inquiries.Create(ctx, inquiryFixture(nil))
	require.NoError(t, err)

	updated, err := inquiries.UpdateStatus(ctx, a.ID, domain.InquiryContacted)
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryContacted, updated.Status)

	got, total, err := inquiries.List(ctx, domain.InquiryContacted, domain.NewPaginationParams(nil, nil))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, total, int64(1))
	for _, in := range got {
		assert.Equal(t, domain.InquiryContacted, in.Status)
	}

	_, all, err := inquiries.List(ctx, "", domain.NewPaginationParams(nil, nil))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, all, int64(2))
}

func TestInquiryRepo_UpdateStatus_NotFound(t *testing.T) {
	inquiries := repo.NewInquiryRepo(testutil.NewTx(t))

	_, err := inquiries.UpdateStatus(context.Background(), uuid.New(), domain.InquiryClosed)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
