package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

// NotificationRepo defines the persistence operations for the admin
// notification feed.
type NotificationRepo interface {
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)

	// List returns notifications newest first, capped at limit rows.
	List(ctx context.Context, unreadOnly bool, limit int) ([]domain.Notification, error)

	// MarkRead stamps read_at. Marking an already read notification is a
	// no-op that returns the stored record. Returns domain.ErrNotFound if absent.
	MarkRead(ctx context.Context, id uuid.UUID) (domain.Notification, error)
}

type pgNotificationRepo struct {
	db db
}

// NewNotificationRepo constructs a NotificationRepo backed by the provided db connection.
func NewNotificationRepo(db db) NotificationRepo {
	return &pgNotificationRepo{db: db}
}

const notificationColumns = `id, kind, message, entity_id, read_at, created_at`

func (r *pgNotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	const q = `
		INSERT INTO notifications (kind, message, entity_id)
		VALUES (@kind, @message, @entity_id)
		RETURNING ` + notificationColumns

	args := pgx.NamedArgs{
		"kind":      string(n.Kind),
		"message":   n.Message,
		"entity_id": n.EntityID,
	}
	result, err := scanNotification(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgNotificationRepo) List(ctx context.Context, unreadOnly bool, limit int) ([]domain.Notification, error) {
	const q = `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE (NOT @unread_only::boolean OR read_at IS NULL)
		ORDER BY created_at DESC, id
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"unread_only": unreadOnly, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.NotificationRepo.List: %w", err)
	}
	out, err := collect(rows, scanNotification)
	if err != nil {
		return nil, fmt.Errorf("repo.NotificationRepo.List: scan: %w", err)
	}
	return out, nil
}

func (r *pgNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) (domain.Notification, error) {
	const q = `
		UPDATE notifications SET read_at = COALESCE(read_at, now())
		WHERE id = @id
		RETURNING ` + notificationColumns

	result, err := scanNotification(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.MarkRead: %w", translateErr(err))
	}
	return result, nil
}

func scanNotification(s scanner) (domain.Notification, error) {
	var (
		n        domain.Notification
		id       pgtype.UUID
		kind     string
		entityID pgtype.UUID
		readAt   pgtype.Timestamptz
	)
	if err := s.Scan(&id, &kind, &n.Message, &entityID, &readAt, &n.CreatedAt); err != nil {
		return domain.Notification{}, err
	}
	n.ID = uuid.UUID(id.Bytes)
	n.Kind = domain.NotificationKind(kind)
	if entityID.Valid {
		eid := uuid.UUID(entityID.Bytes)
		n.EntityID = &eid
	}
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	return n, nil
}
