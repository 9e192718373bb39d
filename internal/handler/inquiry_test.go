package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/dealer-inventory/internal/config"
	"github.com/pkordes/dealer-inventory/internal/domain"
	"github.com/pkordes/dealer-inventory/internal/handler"
)

func inquiryHandler(svc *mockInquiryServicer) http.Handler {
	return newHTTPHandler(handler.Services{Inquiries: svc}, config.Features{})
}

func TestSubmitInquiry_201(t *testing.T) {
	vehicleID := uuid.New()
	svc := &mockInquiryServicer{
		submit: func(_ context.Context, in domain.Inquiry) (domain.Inquiry, error) {
			require.NotNil(t, in.VehicleID)
			assert.Equal(t, vehicleID, *in.VehicleID)
			in.ID = uuid.New()
			in.Status = domain.InquiryNew
			return in, nil
		},
	}

	rec := do(t, inquiryHandler(svc), http.MethodPost, "/inquiries", jsonBody(t, map[string]any{
		"vehicle_id": vehicleID, "name": "Dana", "email": "dana@example.com", "message": "Still available?",
	}))

	require.Equal(t, http.StatusCreated, rec.Code)
	var got domain.Inquiry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, domain.InquiryNew, got.Status)
}

func TestSubmitInquiry_422(t *testing.T) {
	svc := &mockInquiryServicer{
		submit: func(context.Context, domain.Inquiry) (domain.Inquiry, error) {
			return domain.Inquiry{}, fmt.Errorf("%w: email is not a valid address", domain.ErrValidation)
		},
	}

	rec := do(t, inquiryHandler(svc), http.MethodPost, "/inquiries", jsonBody(t, map[string]any{"name": "Dana"}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	_, msg := errorBody(t, rec)
	assert.Equal(t, "email is not a valid address", msg)
}

func TestListInquiries_StatusFilter(t *testing.T) {
	svc := &mockInquiryServicer{
		list: func(_ context.Context, status domain.InquiryStatus, p domain.PaginationParams) (domain.Page[domain.Inquiry], error) {
			assert.Equal(t, domain.InquiryContacted, status)
			assert.Equal(t, 2, p.Page)
			return domain.Page[domain.Inquiry]{Items: nil, Total: 0}, nil
		},
	}

	rec := do(t, inquiryHandler(svc), http.MethodGet, "/admin/inquiries?status=contacted&page=2", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[],"pagination":{"page":2,"limit":20,"total":0}}`, rec.Body.String())
}

func TestUpdateInquiryStatus(t *testing.T) {
	id := uuid.New()
	svc := &mockInquiryServicer{
		updateStatus: func(_ context.Context, got uuid.UUID, status domain.InquiryStatus) (domain.Inquiry, error) {
			if got != id {
				return domain.Inquiry{}, domain.ErrNotFound
			}
			return domain.Inquiry{ID: got, Status: status}, nil
		},
	}
	h := inquiryHandler(svc)

	rec := do(t, h, http.MethodPatch, "/admin/inquiries/"+id.String(), jsonBody(t, map[string]string{"status": "closed"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"closed"`)

	rec = do(t, h, http.MethodPatch, "/admin/inquiries/"+uuid.NewString(), jsonBody(t, map[string]string{"status": "closed"}))
	require.Equal(t, http.StatusNotFound, rec.Code)
	_, msg := errorBody(t, rec)
	assert.Equal(t, "inquiry not found", msg)
}
