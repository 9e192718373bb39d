// Package repo contains all database access logic for the dealer inventory API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan helpers to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Constraint names the repo translates into domain errors.
// They must match the index names in migrations/.
const (
	constraintActiveSlug = "vehicles_active_slug_key"
	constraintActiveVIN  = "vehicles_active_vin_key"
)

// pgUniqueViolation is the SQLSTATE Postgres raises for unique index conflicts.
const pgUniqueViolation = "23505"

// translateErr maps driver errors onto domain sentinels:
// pgx.ErrNoRows becomes domain.ErrNotFound, a conflict on the active-slug
// index becomes domain.ErrSlugTaken and any other unique violation becomes
// domain.ErrConflict. Other errors are returned unchanged.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch pgErr.ConstraintName {
		case constraintActiveSlug:
			return domain.ErrSlugTaken
		case constraintActiveVIN:
			return fmt.Errorf("%w: vin already used by an active vehicle", domain.ErrConflict)
		default:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Detail)
		}
	}
	return err
}

// collect drains rows through scan into a non-nil slice.
func collect[T any](rows pgx.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
