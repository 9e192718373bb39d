package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/dealer-inventory/internal/config"
	"github.com/pkordes/dealer-inventory/internal/domain"
	"github.com/pkordes/dealer-inventory/internal/handler"
)

// ---- mock VehicleServicer --------------------------------------------------

type mockVehicleServicer struct {
	create          func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	getPublicBySlug func(ctx context.Context, slug string) (domain.VehicleDetail, error)
	list            func(ctx context.Context, f domain.VehicleFilter, p domain.PaginationParams) (domain.Page[domain.Vehicle], error)
	update          func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	delete          func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	regenerateSlug  func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	bulk            func(ctx context.Context, req domain.BulkRequest) ([]domain.BulkItemResult, error)
}

func (m *mockVehicleServicer) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.create(ctx, v)
}
func (m *mockVehicleServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByID(ctx, id)
}
func (m *mockVehicleServicer) GetPublicBySlug(ctx context.Context, slug string) (domain.VehicleDetail, error) {
	return m.getPublicBySlug(ctx, slug)
}
func (m *mockVehicleServicer) List(ctx context.Context, f domain.VehicleFilter, p domain.PaginationParams) (domain.Page[domain.Vehicle], error) {
	return m.list(ctx, f, p)
}
func (m *mockVehicleServicer) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.update(ctx, v)
}
func (m *mockVehicleServicer) Delete(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.delete(ctx, id)
}
func (m *mockVehicleServicer) RegenerateSlug(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.regenerateSlug(ctx, id)
}
func (m *mockVehicleServicer) Bulk(ctx context.Context, req domain.BulkRequest) ([]domain.BulkItemResult, error) {
	return m.bulk(ctx, req)
}

var _ handler.VehicleServicer = (*mockVehicleServicer)(nil)

// ---- mock SlugServicer -----------------------------------------------------

type mockSlugServicer struct {
	backfill func(ctx context.Context) (domain.BackfillReport, error)
}

func (m *mockSlugServicer) BackfillMissingSlugs(ctx context.Context) (domain.BackfillReport, error) {
	return m.backfill(ctx)
}

var _ handler.SlugServicer = (*mockSlugServicer)(nil)

// ---- mock ImageServicer ----------------------------------------------------

type mockImageServicer struct {
	upload func(ctx context.Context, vehicleID uuid.UUID, body io.ReadSeeker, size int64) (domain.VehicleImage, error)
	remove func(ctx context.Context, vehicleID, imageID uuid.UUID) (domain.VehicleImage, error)
}

func (m *mockImageServicer) Upload(ctx context.Context, vehicleID uuid.UUID, body io.ReadSeeker, size int64) (domain.VehicleImage, error) {
	return m.upload(ctx, vehicleID, body, size)
}
func (m *mockImageServicer) Remove(ctx context.Context, vehicleID, imageID uuid.UUID) (domain.VehicleImage, error) {
	return m.remove(ctx, vehicleID, imageID)
}

var _ handler.ImageServicer = (*mockImageServicer)(nil)

// ---- mock InquiryServicer --------------------------------------------------

type mockInquiryServicer struct {
	submit       func(ctx context.Context, in domain.Inquiry) (domain.Inquiry, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Inquiry, error)
	list         func(ctx context.Context, status domain.InquiryStatus, p domain.PaginationParams) (domain.Page[domain.Inquiry], error)
	updateStatus func(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (domain.Inquiry, error)
}

func (m *mockInquiryServicer) Submit(ctx context.Context, in domain.Inquiry) (domain.Inquiry, error) {
	return m.submit(ctx, in)
}
func (m *mockInquiryServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Inquiry, error) {
	return m.getByID(ctx, id)
}
func (m *mockInquiryServicer) List(ctx context.Context, status domain.InquiryStatus, p domain.PaginationParams) (domain.Page[domain.Inquiry], error) {
	return m.list(ctx, status, p)
}
func (m *mockInquiryServicer) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (domain.Inquiry, error) {
	return m.updateStatus(ctx, id, status)
}

var _ handler.InquiryServicer = (*mockInquiryServicer)(nil)

// ---- mock NotificationServicer ---------------------------------------------

type mockNotificationServicer struct {
	list     func(ctx context.Context, unreadOnly bool) ([]domain.Notification, error)
	markRead func(ctx context.Context, id uuid.UUID) (domain.Notification, error)
}

func (m *mockNotificationServicer) List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	return m.list(ctx, unreadOnly)
}
func (m *mockNotificationServicer) MarkRead(ctx context.Context, id uuid.UUID) (domain.Notification, error) {
	return m.markRead(ctx, id)
}

var _ handler.NotificationServicer = (*mockNotificationServicer)(nil)

// ---- mock AuditServicer ----------------------------------------------------

// mockAuditServicer records every entry it is given. The list functions
// are optional.
type mockAuditServicer struct {
	entries      []domain.AuditLog
	sessions     []domain.SessionLog
	list         func(ctx context.Context, f domain.AuditFilter, p domain.PaginationParams) (domain.Page[domain.AuditLog], error)
	listSessions func(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.SessionLog], error)
}

func (m *mockAuditServicer) Record(_ context.Context, e domain.AuditLog) error {
	m.entries = append(m.entries, e)
	return nil
}
func (m *mockAuditServicer) List(ctx context.Context, f domain.AuditFilter, p domain.PaginationParams) (domain.Page[domain.AuditLog], error) {
	return m.list(ctx, f, p)
}
func (m *mockAuditServicer) RecordSession(_ context.Context, e domain.SessionLog) error {
	m.sessions = append(m.sessions, e)
	return nil
}
func (m *mockAuditServicer) ListSessions(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.SessionLog], error) {
	return m.listSessions(ctx, p)
}

var _ handler.AuditServicer = (*mockAuditServicer)(nil)

// ---- mock ExportServicer ---------------------------------------------------

type mockExportServicer struct {
	export func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context) ([]domain.ExportRow, error) {
	return m.export(ctx)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- mock Pinger -----------------------------------------------------------

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// ---- helpers ---------------------------------------------------------------

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	testMaxBody   = 4 << 10
	testMaxUpload = 64 << 10
)

// newHTTPHandler wires a Server with the given mocks into the real router,
// exactly as main.go does. Audit and session logging are off unless
// features enables them.
func newHTTPHandler(svc handler.Services, features config.Features) http.Handler {
	if svc.Audit == nil {
		svc.Audit = &mockAuditServicer{}
	}
	srv := handler.NewServer(svc, testLogger)
	return handler.NewRouter(srv, handler.RouterConfig{
		CORSOrigins:    []string{"http://localhost:5173"},
		MaxBodyBytes:   testMaxBody,
		MaxUploadBytes: testMaxUpload,
		Features:       features,
	}, testLogger)
}

func do(t *testing.T, h http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// errorBody decodes the {"error":{...}} envelope.
func errorBody(t *testing.T, rec *httptest.ResponseRecorder) (code, message string) {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error.Code, body.Error.Message
}
