package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	Record(ctx context.Context, entry domain.AuditLog) error
}

// Snapshot loads the current state of the entity with the given id.
type Snapshot func(ctx context.Context, id uuid.UUID) (any, error)

// AuditRule describes how one route is audited.
//
// IDParam is the chi URL parameter holding the entity id. Routes without one
// (create, bulk, backfill) record the response body as the after state, and
// a create takes its entity id from the "id" field of that body.
//
// Snapshot, when set, is called before and after the handler for routes with
// an IDParam. Deletes skip the after snapshot.
type AuditRule struct {
	Action     domain.AuditAction
	EntityType string
	IDParam    string
	Snapshot   Snapshot
}

// Auditor wraps admin handlers so every successful mutation leaves an audit
// entry. The handler's response is passed through untouched.
type Auditor struct {
	recorder AuditRecorder
	enabled  bool
	log      *slog.Logger
}

// NewAuditor returns an Auditor. When enabled is false every rule is a no-op.
func NewAuditor(recorder AuditRecorder, enabled bool, log *slog.Logger) *Auditor {
	return &Auditor{recorder: recorder, enabled: enabled, log: log}
}

// Audit returns a middleware recording rule for each 2xx response.
// Failures to snapshot or record are logged and never change the response.
func (a *Auditor) Audit(rule AuditRule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !a.enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			entityID := a.entityID(r, rule)

			var before json.RawMessage
			if entityID != nil && rule.Snapshot != nil {
				before = a.snapshot(ctx, rule, *entityID)
			}

			var body bytes.Buffer
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)

			next.ServeHTTP(ww, r)

			if status := statusOf(ww); status < 200 || status >= 300 {
				return
			}

			// The response is already sent; a client disconnect must not
			// lose the entry.
			ctx = context.WithoutCancel(ctx)

			var after json.RawMessage
			switch {
			case rule.Action == domain.AuditDelete:
			case entityID != nil && rule.Snapshot != nil:
				after = a.snapshot(ctx, rule, *entityID)
			case json.Valid(body.Bytes()):
				after = json.RawMessage(bytes.Clone(body.Bytes()))
				if entityID == nil {
					entityID = idFromBody(after)
				}
			}

			entry := domain.AuditLog{
				Action:     rule.Action,
				EntityType: rule.EntityType,
				EntityID:   entityID,
				Actor:      ActorFromContext(ctx),
				RequestID:  chimiddleware.GetReqID(ctx),
				Before:     before,
				After:      after,
			}
			if err := a.recorder.Record(ctx, entry); err != nil {
				a.log.ErrorContext(ctx, "audit record failed",
					"action", rule.Action, "entity_type", rule.EntityType, "error", err)
			}
		})
	}
}

func (a *Auditor) entityID(r *http.Request, rule AuditRule) *uuid.UUID {
	if rule.IDParam == "" {
		return nil
	}
	id, err := uuid.Parse(chi.URLParam(r, rule.IDParam))
	if err != nil {
		return nil
	}
	return &id
}

func (a *Auditor) snapshot(ctx context.Context, rule AuditRule, id uuid.UUID) json.RawMessage {
	state, err := rule.Snapshot(ctx, id)
	if err != nil {
		a.log.WarnContext(ctx, "audit snapshot failed", "entity_type", rule.EntityType, "entity_id", id, "error", err)
		return nil
	}
	raw, err := json.Marshal(state)
	if err != nil {
		a.log.WarnContext(ctx, "audit snapshot not encodable", "entity_type", rule.EntityType, "error", err)
		return nil
	}
	return raw
}

// idFromBody extracts a top-level "id" from a JSON object response.
func idFromBody(body json.RawMessage) *uuid.UUID {
	var probe struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || probe.ID == uuid.Nil {
		return nil
	}
	return &probe.ID
}
