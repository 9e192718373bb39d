package service_test

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/dealer-inventory/internal/cache"
	"github.com/pkordes/dealer-inventory/internal/domain"
	"github.com/pkordes/dealer-inventory/internal/repo"
	"github.com/pkordes/dealer-inventory/internal/service"
)

// ---- mock VehicleRepo ------------------------------------------------------

type mockVehicleRepo struct {
	create           func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	getByID          func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	findActiveBySlug func(ctx context.Context, slug string) (domain.Vehicle, error)
	list             func(ctx context.Context, f domain.VehicleFilter, p domain.PaginationParams) ([]domain.Vehicle, int64, error)
	update           func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	softDelete       func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	setSlug          func(ctx context.Context, id uuid.UUID, slug string) (domain.Vehicle, error)
	replaceSlug      func(ctx context.Context, id uuid.UUID, slug string) (domain.Vehicle, error)
	listMissingSlugs func(ctx context.Context) ([]domain.Vehicle, error)
	setStatus        func(ctx context.Context, id uuid.UUID, status domain.VehicleStatus) error
	setFeatured      func(ctx context.Context, id uuid.UUID, featured bool) error
	exportRows       func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockVehicleRepo) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.create(ctx, v)
}
func (m *mockVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByID(ctx, id)
}
func (m *mockVehicleRepo) FindActiveBySlug(ctx context.Context, slug string) (domain.Vehicle, error) {
	return m.findActiveBySlug(ctx, slug)
}
func (m *mockVehicleRepo) List(ctx context.Context, f domain.VehicleFilter, p domain.PaginationParams) ([]domain.Vehicle, int64, error) {
	return m.list(ctx, f, p)
}
func (m *mockVehicleRepo) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.update(ctx, v)
}
func (m *mockVehicleRepo) SoftDelete(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.softDelete(ctx, id)
}
func (m *mockVehicleRepo) SetSlug(ctx context.Context, id uuid.UUID, slug string) (domain.Vehicle, error) {
	return m.setSlug(ctx, id, slug)
}
func (m *mockVehicleRepo) ReplaceSlug(ctx context.Context, id uuid.UUID, slug string) (domain.Vehicle, error) {
	return m.replaceSlug(ctx, id, slug)
}
func (m *mockVehicleRepo) ListMissingSlugs(ctx context.Context) ([]domain.Vehicle, error) {
	return m.listMissingSlugs(ctx)
}
func (m *mockVehicleRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.VehicleStatus) error {
	return m.setStatus(ctx, id, status)
}
func (m *mockVehicleRepo) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	return m.setFeatured(ctx, id, featured)
}
func (m *mockVehicleRepo) ExportRows(ctx context.Context) ([]domain.ExportRow, error) {
	return m.exportRows(ctx)
}

var _ repo.VehicleRepo = (*mockVehicleRepo)(nil)

// ---- mock ImageRepo --------------------------------------------------------

type mockImageRepo struct {
	create        func(ctx context.Context, img domain.VehicleImage) (domain.VehicleImage, error)
	listByVehicle func(ctx context.Context, vehicleID uuid.UUID) ([]domain.VehicleImage, error)
	delete        func(ctx context.Context, vehicleID, imageID uuid.UUID) (domain.VehicleImage, error)
}

func (m *mockImageRepo) Create(ctx context.Context, img domain.VehicleImage) (domain.VehicleImage, error) {
	return m.create(ctx, img)
}
func (m *mockImageRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.VehicleImage, error) {
	if m.listByVehicle == nil {
		return []domain.VehicleImage{}, nil
	}
	return m.listByVehicle(ctx, vehicleID)
}
func (m *mockImageRepo) Delete(ctx context.Context, vehicleID, imageID uuid.UUID) (domain.VehicleImage, error) {
	return m.delete(ctx, vehicleID, imageID)
}

var _ repo.ImageRepo = (*mockImageRepo)(nil)

// ---- mock InquiryRepo ------------------------------------------------------

type mockInquiryRepo struct {
	create       func(ctx context.Context, in domain.Inquiry) (domain.Inquiry, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Inquiry, error)
	list         func(ctx context.Context, status domain.InquiryStatus, p domain.PaginationParams) ([]domain.Inquiry, int64, error)
	updateStatus func(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (domain.Inquiry, error)
}

func (m *mockInquiryRepo) Create(ctx context.Context, in domain.Inquiry) (domain.Inquiry, error) {
	return m.create(ctx, in)
}
func (m *mockInquiryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Inquiry, error) {
	return m.getByID(ctx, id)
}
func (m *mockInquiryRepo) List(ctx context.Context, status domain.InquiryStatus, p domain.PaginationParams) ([]domain.Inquiry, int64, error) {
	return m.list(ctx, status, p)
}
func (m *mockInquiryRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (domain.Inquiry, error) {
	return m.updateStatus(ctx, id, status)
}

var _ repo.InquiryRepo = (*mockInquiryRepo)(nil)

// ---- mock NotificationRepo -------------------------------------------------

type mockNotificationRepo struct {
	create   func(ctx context.Context, n domain.Notification) (domain.Notification, error)
	list     func(ctx context.Context, unreadOnly bool, limit int) ([]domain.Notification, error)
	markRead func(ctx context.Context, id uuid.UUID) (domain.Notification, error)
}

func (m *mockNotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	return m.create(ctx, n)
}
func (m *mockNotificationRepo) List(ctx context.Context, unreadOnly bool, limit int) ([]domain.Notification, error) {
	return m.list(ctx, unreadOnly, limit)
}
func (m *mockNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) (domain.Notification, error) {
	return m.markRead(ctx, id)
}

var _ repo.NotificationRepo = (*mockNotificationRepo)(nil)

// ---- mock AuditRepo --------------------------------------------------------

type mockAuditRepo struct {
	createAudit   func(ctx context.Context, e domain.AuditLog) (domain.AuditLog, error)
	listAudit     func(ctx context.Context, f domain.AuditFilter, p domain.PaginationParams) ([]domain.AuditLog, int64, error)
	createSession func(ctx context.Context, e domain.SessionLog) error
	listSessions  func(ctx context.Context, p domain.PaginationParams) ([]domain.SessionLog, int64, error)
}

func (m *mockAuditRepo) CreateAudit(ctx context.Context, e domain.AuditLog) (domain.AuditLog, error) {
	return m.createAudit(ctx, e)
}
func (m *mockAuditRepo) ListAudit(ctx context.Context, f domain.AuditFilter, p domain.PaginationParams) ([]domain.AuditLog, int64, error) {
	return m.listAudit(ctx, f, p)
}
func (m *mockAuditRepo) CreateSession(ctx context.Context, e domain.SessionLog) error {
	return m.createSession(ctx, e)
}
func (m *mockAuditRepo) ListSessions(ctx context.Context, p domain.PaginationParams) ([]domain.SessionLog, int64, error) {
	return m.listSessions(ctx, p)
}

var _ repo.AuditRepo = (*mockAuditRepo)(nil)

// ---- fake ObjectStore ------------------------------------------------------

type fakeStore struct {
	puts    map[string][]byte
	deleted []string
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{puts: map[string][]byte{}}
}

func (f *fakeStore) Put(_ context.Context, key string, body io.ReadSeeker, _ int64, _ string) error {
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.puts[key] = data
	return nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) URL(key string) string {
	return "https://cdn.example.com/" + key
}

var _ service.ObjectStore = (*fakeStore)(nil)

// ---- recording cache -------------------------------------------------------

// memCache is a map-backed cache.Cache that records deletions.
type memCache[V any] struct {
	items   map[string]V
	deleted []string
}

func newMemCache[V any]() *memCache[V] {
	return &memCache[V]{items: map[string]V{}}
}

func (c *memCache[V]) Get(_ context.Context, key string) (V, error) {
	v, ok := c.items[key]
	if !ok {
		var zero V
		return zero, cache.ErrNotFound
	}
	return v, nil
}

func (c *memCache[V]) Set(_ context.Context, key string, value V, _ time.Duration) error {
	c.items[key] = value
	return nil
}

func (c *memCache[V]) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.items, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

var _ cache.Cache[domain.VehicleDetail] = (*memCache[domain.VehicleDetail])(nil)
