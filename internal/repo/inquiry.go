package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

// InquiryRepo defines the persistence operations for buyer inquiries.
type InquiryRepo interface {
	// Create inserts a new inquiry and returns the persisted record.
	Create(ctx context.Context, in domain.Inquiry) (domain.Inquiry, error)

	// GetByID retrieves a single inquiry. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Inquiry, error)

	// List returns one page of inquiries, newest first, optionally filtered by
	// status, and the total match count.
	List(ctx context.Context, status domain.InquiryStatus, p domain.PaginationParams) ([]domain.Inquiry, int64, error)

	// UpdateStatus changes an inquiry's status and returns the updated record.
	// Returns domain.ErrNotFound if absent.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (domain.Inquiry, error)
}

// pgInquiryRepo is the Postgres implementation of InquiryRepo.
type pgInquiryRepo struct {
	db db
}

// NewInquiryRepo constructs an InquiryRepo backed by the provided db connection.
func NewInquiryRepo(db db) InquiryRepo {
	return &pgInquiryRepo{db: db}
}

const inquiryColumns = `id, vehicle_id, name, email, phone, message, status, created_at, updated_at`

func (r *pgInquiryRepo) Create(ctx context.Context, in domain.Inquiry) (domain.Inquiry, error) {
	const q = `
		INSERT INTO inquiries (vehicle_id, name, email, phone, message, status)
		VALUES (@vehicle_id, @name, @email, @phone, @message, @status)
		RETURNING ` + inquiryColumns

	args := pgx.NamedArgs{
		"vehicle_id": in.VehicleID, // nil becomes NULL
		"name":       in.Name,
		"email":      in.Email,
		"phone":      in.Phone,
		"message":    in.Message,
		"status":     string(in.Status),
	}
	result, err := scanInquiry(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Inquiry{}, fmt.Errorf("repo.InquiryRepo.Create: %w", translateErr(err))
	}
	return result, nil
}

func (r *pgInquiryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Inquiry, error) {
	const q = `SELECT ` + inquiryColumns + ` FROM inquiries WHERE id = @id`

	result, err := scanInquiry(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Inquiry{}, fmt.Errorf("repo.InquiryRepo.GetByID: %w", translateErr(err))
	}
	return result, nil
}

func (r *pgInquiryRepo) List(ctx context.Context, status domain.InquiryStatus, p domain.PaginationParams) ([]domain.Inquiry, int64, error) {
	const where = `(@status::text = '' OR status = @status::text)`
	args := pgx.NamedArgs{"status": string(status), "limit": p.Limit, "offset": p.Offset()}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM inquiries WHERE `+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.InquiryRepo.List: count: %w", err)
	}

	q := `SELECT ` + inquiryColumns + ` FROM inquiries WHERE ` + where +
		` ORDER BY created_at DESC, id LIMIT @limit OFFSET @offset`
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.InquiryRepo.List: %w", err)
	}
	inquiries, err := collect(rows, scanInquiry)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.InquiryRepo.List: scan: %w", err)
	}
	return inquiries, total, nil
}

func (r *pgInquiryRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (domain.Inquiry, error) {
	const q = `
		UPDATE inquiries SET status = @status, updated_at = now()
		WHERE id = @id
		RETURNING ` + inquiryColumns

	result, err := scanInquiry(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": string(status)}))
	if err != nil {
		return domain.Inquiry{}, fmt.Errorf("repo.InquiryRepo.UpdateStatus: %w", translateErr(err))
	}
	return result, nil
}

// scanInquiry maps a single database row into a domain.Inquiry.
func scanInquiry(s scanner) (domain.Inquiry, error) {
	var (
		in        domain.Inquiry
		id        pgtype.UUID
		vehicleID pgtype.UUID
		status    string
	)
	err := s.Scan(&id, &vehicleID, &in.Name, &in.Email, &in.Phone, &in.Message, &status, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return domain.Inquiry{}, err
	}
	in.ID = uuid.UUID(id.Bytes)
	if vehicleID.Valid {
		vid := uuid.UUID(vehicleID.Bytes)
		in.VehicleID = &vid
	}
	in.Status = domain.InquiryStatus(status)
	return in, nil
}
