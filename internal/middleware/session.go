package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

// SessionRecorder persists admin session log entries.
type SessionRecorder interface {
	RecordSession(ctx context.Context, entry domain.SessionLog) error
}

// NewSessionLogger returns a middleware writing one session log row per
// request it wraps. It is mounted on the admin routes only. When enabled is
// false it returns next unchanged.
func NewSessionLogger(recorder SessionRecorder, enabled bool, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			ctx := context.WithoutCancel(r.Context())
			entry := domain.SessionLog{
				Actor:      ActorFromContext(ctx),
				IPAddress:  r.RemoteAddr,
				UserAgent:  r.UserAgent(),
				Method:     r.Method,
				Path:       r.URL.Path,
				Status:     statusOf(ww),
				RequestID:  chimiddleware.GetReqID(ctx),
				DurationMS: time.Since(start).Milliseconds(),
			}
			if err := recorder.RecordSession(ctx, entry); err != nil {
				log.ErrorContext(ctx, "session log failed", "path", entry.Path, "error", err)
			}
		})
	}
}
