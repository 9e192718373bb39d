package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditAction names the kind of change an audit entry describes.
type AuditAction string

const (
	AuditCreate   AuditAction = "create"
	AuditUpdate   AuditAction = "update"
	AuditDelete   AuditAction = "delete"
	AuditBulk     AuditAction = "bulk"
	AuditBackfill AuditAction = "backfill"
)

// Entity types recorded in audit logs.
const (
	EntityVehicle = "vehicle"
	EntityInquiry = "inquiry"
)

// AuditLog is one administrative change with the entity state captured
// before and after it. Before is null for creates, After is null for deletes.
type AuditLog struct {
	ID         uuid.UUID       `json:"id"`
	Action     AuditAction     `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   *uuid.UUID      `json:"entity_id,omitempty"`
	Actor      string          `json:"actor"`
	RequestID  string          `json:"request_id,omitempty"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AuditFilter narrows an audit log listing. Zero values mean "no constraint".
type AuditFilter struct {
	EntityType string
	EntityID   *uuid.UUID
}

// SessionLog is one request made against the admin API.
type SessionLog struct {
	ID         uuid.UUID `json:"id"`
	Actor      string    `json:"actor"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Status     int       `json:"status"`
	RequestID  string    `json:"request_id,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
