package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

// AuditRepo defines the persistence operations for audit and session logs.
// Both tables are append-only.
type AuditRepo interface {
	// CreateAudit appends an audit entry.
	CreateAudit(ctx context.Context, entry domain.AuditLog) (domain.AuditLog, error)

	// ListAudit returns one page of audit entries, newest first, and the total.
	ListAudit(ctx context.Context, f domain.AuditFilter, p domain.PaginationParams) ([]domain.AuditLog, int64, error)

	// CreateSession appends a session log entry.
	CreateSession(ctx context.Context, entry domain.SessionLog) error

	// ListSessions returns one page of session log entries, newest first, and the total.
	ListSessions(ctx context.Context, p domain.PaginationParams) ([]domain.SessionLog, int64, error)
}

// pgAuditRepo is the Postgres implementation of AuditRepo.
type pgAuditRepo struct {
	db db
}

// NewAuditRepo constructs an AuditRepo backed by the provided db connection.
func NewAuditRepo(db db) AuditRepo {
	return &pgAuditRepo{db: db}
}

const auditColumns = `id, action, entity_type, entity_id, actor, request_id, before, after, created_at`

func (r *pgAuditRepo) CreateAudit(ctx context.Context, entry domain.AuditLog) (domain.AuditLog, error) {
	const q = `
		INSERT INTO audit_logs (action, entity_type, entity_id, actor, request_id, before, after)
		VALUES (@action, @entity_type, @entity_id, @actor, @request_id, @before, @after)
		RETURNING ` + auditColumns

	args := pgx.NamedArgs{
		"action":      string(entry.Action),
		"entity_type": entry.EntityType,
		"entity_id":   entry.EntityID,
		"actor":       entry.Actor,
		"request_id":  entry.RequestID,
		"before":      jsonOrNull(entry.Before),
		"after":       jsonOrNull(entry.After),
	}
	result, err := scanAudit(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.AuditLog{}, fmt.Errorf("repo.AuditRepo.CreateAudit: %w", err)
	}
	return result, nil
}

func (r *pgAuditRepo) ListAudit(ctx context.Context, f domain.AuditFilter, p domain.PaginationParams) ([]domain.AuditLog, int64, error) {
	const where = `(@entity_type::text = '' OR entity_type = @entity_type::text)
		AND (@entity_id::uuid IS NULL OR entity_id = @entity_id::uuid)`
	args := pgx.NamedArgs{
		"entity_type": f.EntityType,
		"entity_id":   f.EntityID,
		"limit":       p.Limit,
		"offset":      p.Offset(),
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs WHERE `+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.AuditRepo.ListAudit: count: %w", err)
	}

	q := `SELECT ` + auditColumns + ` FROM audit_logs WHERE ` + where +
		` ORDER BY created_at DESC, id LIMIT @limit OFFSET @offset`
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.AuditRepo.ListAudit: %w", err)
	}
	entries, err := collect(rows, scanAudit)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.AuditRepo.ListAudit: scan: %w", err)
	}
	return entries, total, nil
}

func (r *pgAuditRepo) CreateSession(ctx context.Context, entry domain.SessionLog) error {
	const q = `
		INSERT INTO session_logs (actor, ip_address, user_agent, method, path, status, request_id, duration_ms)
		VALUES (@actor, @ip_address, @user_agent, @method, @path, @status, @request_id, @duration_ms)`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"actor":       entry.Actor,
		"ip_address":  entry.IPAddress,
		"user_agent":  entry.UserAgent,
		"method":      entry.Method,
		"path":        entry.Path,
		"status":      entry.Status,
		"request_id":  entry.RequestID,
		"duration_ms": entry.DurationMS,
	})
	if err != nil {
		return fmt.Errorf("repo.AuditRepo.CreateSession: %w", err)
	}
	return nil
}

func (r *pgAuditRepo) ListSessions(ctx context.Context, p domain.PaginationParams) ([]domain.SessionLog, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM session_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.AuditRepo.ListSessions: count: %w", err)
	}

	const q = `
		SELECT id, actor, ip_address, user_agent, method, path, status, request_id, duration_ms, created_at
		FROM session_logs
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.AuditRepo.ListSessions: %w", err)
	}
	entries, err := collect(rows, func(s scanner) (domain.SessionLog, error) {
		var (
			e  domain.SessionLog
			id pgtype.UUID
		)
		err := s.Scan(&id, &e.Actor, &e.IPAddress, &e.UserAgent, &e.Method, &e.Path, &e.Status, &e.RequestID, &e.DurationMS, &e.CreatedAt)
		e.ID = uuid.UUID(id.Bytes)
		return e, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.AuditRepo.ListSessions: scan: %w", err)
	}
	return entries, total, nil
}

// jsonOrNull returns nil for an empty document so pgx writes SQL NULL
// instead of an invalid empty jsonb value.
func jsonOrNull(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// scanAudit maps a single database row into a domain.AuditLog.
func scanAudit(s scanner) (domain.AuditLog, error) {
	var (
		e        domain.AuditLog
		id       pgtype.UUID
		entityID pgtype.UUID
		action   string
		before   []byte
		after    []byte
	)
	err := s.Scan(&id, &action, &e.EntityType, &entityID, &e.Actor, &e.RequestID, &before, &after, &e.CreatedAt)
	if err != nil {
		return domain.AuditLog{}, err
	}
	e.ID = uuid.UUID(id.Bytes)
	e.Action = domain.AuditAction(action)
	if entityID.Valid {
		eid := uuid.UUID(entityID.Bytes)
		e.EntityID = &eid
	}
	e.Before = before
	e.After = after
	return e, nil
}
