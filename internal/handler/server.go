// Package handler implements the HTTP handlers for the dealer inventory API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (vehicle.go, inquiry.go, etc.) but share the same Server struct so
// they can reach its dependencies. NewRouter mounts them on a chi router.
package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

// VehicleServicer defines the inventory operations the vehicle handlers
// depend on. Defining the interface here, in the consumer package, lets
// handler tests inject a mock without touching the service layer.
type VehicleServicer interface {
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	GetPublicBySlug(ctx context.Context, slug string) (domain.VehicleDetail, error)
	List(ctx context.Context, f domain.VehicleFilter, p domain.PaginationParams) (domain.Page[domain.Vehicle], error)
	Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	Delete(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	RegenerateSlug(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	Bulk(ctx context.Context, req domain.BulkRequest) ([]domain.BulkItemResult, error)
}

// SlugServicer runs the slug backfill.
type SlugServicer interface {
	BackfillMissingSlugs(ctx context.Context) (domain.BackfillReport, error)
}

// ImageServicer stores and removes vehicle photos.
type ImageServicer interface {
	Upload(ctx context.Context, vehicleID uuid.UUID, body io.ReadSeeker, size int64) (domain.VehicleImage, error)
	Remove(ctx context.Context, vehicleID, imageID uuid.UUID) (domain.VehicleImage, error)
}

// InquiryServicer handles buyer inquiries.
type InquiryServicer interface {
	Submit(ctx context.Context, in domain.Inquiry) (domain.Inquiry, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Inquiry, error)
	List(ctx context.Context, status domain.InquiryStatus, p domain.PaginationParams) (domain.Page[domain.Inquiry], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (domain.Inquiry, error)
}

// NotificationServicer exposes the admin notification feed.
type NotificationServicer interface {
	List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) (domain.Notification, error)
}

// AuditServicer records and lists the audit trail and session log. It is
// also the recorder behind the audit and session middleware.
type AuditServicer interface {
	Record(ctx context.Context, entry domain.AuditLog) error
	List(ctx context.Context, f domain.AuditFilter, p domain.PaginationParams) (domain.Page[domain.AuditLog], error)
	RecordSession(ctx context.Context, entry domain.SessionLog) error
	ListSessions(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.SessionLog], error)
}

// ExportServicer produces the flat inventory export.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Pinger reports database reachability for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the dependencies of Server. A nil DB makes the health
// check report ok unconditionally.
type Services struct {
	Vehicles      VehicleServicer
	Slugs         SlugServicer
	Images        ImageServicer
	Inquiries     InquiryServicer
	Notifications NotificationServicer
	Audit         AuditServicer
	Export        ExportServicer
	DB            Pinger
}

// Server holds every handler of the API.
type Server struct {
	vehicles      VehicleServicer
	slugs         SlugServicer
	images        ImageServicer
	inquiries     InquiryServicer
	notifications NotificationServicer
	audit         AuditServicer
	export        ExportServicer
	db            Pinger
	log           *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services, log *slog.Logger) *Server {
	return &Server{
		vehicles:      svc.Vehicles,
		slugs:         svc.Slugs,
		images:        svc.Images,
		inquiries:     svc.Inquiries,
		notifications: svc.Notifications,
		audit:         svc.Audit,
		export:        svc.Export,
		db:            svc.DB,
		log:           log,
	}
}
