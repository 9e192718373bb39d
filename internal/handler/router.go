package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/dealer-inventory/internal/config"
	"github.com/pkordes/dealer-inventory/internal/domain"
	"github.com/pkordes/dealer-inventory/internal/middleware"
)

// RouterConfig carries the settings NewRouter needs from config.Config.
type RouterConfig struct {
	CORSOrigins    []string
	MaxBodyBytes   int64
	MaxUploadBytes int64
	Features       config.Features
}

// NewRouter mounts every endpoint of s on a chi router.
//
// Middleware order: RequestID → RealIP → CORS → WithActor → SlogLogger →
// Recoverer. Admin routes add the session logger, and each admin write is
// wrapped by the Auditor. JSON routes are capped at MaxBodyBytes; the image
// upload route at MaxUploadBytes.
func NewRouter(s *Server, cfg RouterConfig, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.WithActor)
	r.Use(middleware.NewSlogLogger(log))
	r.Use(chimiddleware.Recoverer)

	jsonLimit := middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes)
	uploadLimit := middleware.NewMaxBodySizeHandler(cfg.MaxUploadBytes)

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Group(func(r chi.Router) {
		r.Use(jsonLimit)
		r.Get("/vehicles", s.ListPublicVehicles)
		r.Get("/vehicles/{slug}", s.GetPublicVehicle)
		r.Post("/inquiries", s.SubmitInquiry)
	})

	auditor := middleware.NewAuditor(s.audit, cfg.Features.AuditLog, log)
	vehicleRule := func(action domain.AuditAction) func(http.Handler) http.Handler {
		return auditor.Audit(middleware.AuditRule{
			Action:     action,
			EntityType: domain.EntityVehicle,
			IDParam:    "id",
			Snapshot:   s.snapshotVehicle,
		})
	}
	collectionRule := func(action domain.AuditAction) func(http.Handler) http.Handler {
		return auditor.Audit(middleware.AuditRule{Action: action, EntityType: domain.EntityVehicle})
	}

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewSessionLogger(s.audit, cfg.Features.SessionLog, log))

		r.With(uploadLimit, vehicleRule(domain.AuditUpdate)).
			Post("/vehicles/{id}/images", s.UploadVehicleImage)

		r.Group(func(r chi.Router) {
			r.Use(jsonLimit)

			r.Get("/vehicles", s.ListVehicles)
			r.With(collectionRule(domain.AuditCreate)).Post("/vehicles", s.CreateVehicle)
			r.With(collectionRule(domain.AuditBulk)).Post("/vehicles/bulk", s.BulkVehicles)
			r.With(collectionRule(domain.AuditBackfill)).Post("/vehicles/backfill-slugs", s.BackfillSlugs)

			r.Get("/vehicles/{id}", s.GetVehicle)
			r.With(vehicleRule(domain.AuditUpdate)).Put("/vehicles/{id}", s.UpdateVehicle)
			r.With(vehicleRule(domain.AuditDelete)).Delete("/vehicles/{id}", s.DeleteVehicle)
			r.With(vehicleRule(domain.AuditUpdate)).Post("/vehicles/{id}/regenerate-slug", s.RegenerateVehicleSlug)
			r.With(vehicleRule(domain.AuditUpdate)).Delete("/vehicles/{id}/images/{imageId}", s.DeleteVehicleImage)

			r.Get("/inquiries", s.ListInquiries)
			r.Get("/inquiries/{id}", s.GetInquiry)
			r.With(auditor.Audit(middleware.AuditRule{
				Action:     domain.AuditUpdate,
				EntityType: domain.EntityInquiry,
				IDParam:    "id",
				Snapshot:   s.snapshotInquiry,
			})).Patch("/inquiries/{id}", s.UpdateInquiryStatus)

			r.Get("/audit-logs", s.ListAuditLogs)
			r.Get("/session-logs", s.ListSessionLogs)

			r.Get("/notifications", s.ListNotifications)
			r.Post("/notifications/{id}/read", s.MarkNotificationRead)

			r.Get("/export", s.GetExport)
		})
	})
	return r
}
