package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/dealer-inventory/internal/domain"
	"github.com/pkordes/dealer-inventory/internal/repo"
)

const (
	maxInquiryName    = 200
	maxInquiryMessage = 5000
)

// InquiryService handles buyer inquiries. Every accepted inquiry raises a
// new_inquiry notification for the sales team.
type InquiryService struct {
	inquiries     repo.InquiryRepo
	vehicles      repo.VehicleRepo
	notifications repo.NotificationRepo
}

// NewInquiryService constructs an InquiryService.
func NewInquiryService(inquiries repo.InquiryRepo, vehicles repo.VehicleRepo, notifications repo.NotificationRepo) *InquiryService {
	return &InquiryService{inquiries: inquiries, vehicles: vehicles, notifications: notifications}
}

// Submit validates and stores a public inquiry. A vehicle_id must point at
// a listed (active, non-draft) vehicle. The notification is best effort:
// failing to raise it does not reject the inquiry.
func (s *InquiryService) Submit(ctx context.Context, in domain.Inquiry) (domain.Inquiry, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	in.Status = domain.InquiryNew

	if err := validateInquiry(in); err != nil {
		return domain.Inquiry{}, err
	}

	var about string
	if in.VehicleID != nil {
		v, err := s.vehicles.GetByID(ctx, *in.VehicleID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.Inquiry{}, fmt.Errorf("service.InquiryService.Submit: %w", err)
		}
		if err != nil || v.Status == domain.StatusDraft {
			return domain.Inquiry{}, fmt.Errorf("%w: vehicle_id does not reference a listed vehicle", domain.ErrValidation)
		}
		about = fmt.Sprintf(" about the %d %s %s", v.Year, v.Make, v.Model)
	}

	created, err := s.inquiries.Create(ctx, in)
	if err != nil {
		return domain.Inquiry{}, fmt.Errorf("service.InquiryService.Submit: %w", err)
	}

	id := created.ID
	_, err = s.notifications.Create(ctx, domain.Notification{
		Kind:     domain.NotificationNewInquiry,
		Message:  fmt.Sprintf("New inquiry from %s%s", created.Name, about),
		EntityID: &id,
	})
	if err != nil {
		slog.WarnContext(ctx, "inquiry notification failed", "inquiry_id", id, "error", err)
	}
	return created, nil
}

// GetByID returns a single inquiry.
func (s *InquiryService) GetByID(ctx context.Context, id uuid.UUID) (domain.Inquiry, error) {
	in, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		return domain.Inquiry{}, fmt.Errorf("service.InquiryService.GetByID: %w", err)
	}
	return in, nil
}

// List returns one page of inquiries, optionally filtered by status.
func (s *InquiryService) List(ctx context.Context, status domain.InquiryStatus, p domain.PaginationParams) (domain.Page[domain.Inquiry], error) {
	if status != "" && !status.Valid() {
		return domain.Page[domain.Inquiry]{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	items, total, err := s.inquiries.List(ctx, status, p)
	if err != nil {
		return domain.Page[domain.Inquiry]{}, fmt.Errorf("service.InquiryService.List: %w", err)
	}
	return newPage(items, total), nil
}

// UpdateStatus moves an inquiry through the sales workflow.
func (s *InquiryService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InquiryStatus) (domain.Inquiry, error) {
	if !status.Valid() {
		return domain.Inquiry{}, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	in, err := s.inquiries.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Inquiry{}, fmt.Errorf("service.InquiryService.UpdateStatus: %w", err)
	}
	return in, nil
}

func validateInquiry(in domain.Inquiry) error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if len(in.Name) > maxInquiryName {
		return fmt.Errorf("%w: name is too long", domain.ErrValidation)
	}
	if in.Email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return fmt.Errorf("%w: email is not a valid address", domain.ErrValidation)
	}
	if in.Message == "" {
		return fmt.Errorf("%w: message is required", domain.ErrValidation)
	}
	if len(in.Message) > maxInquiryMessage {
		return fmt.Errorf("%w: message is too long", domain.ErrValidation)
	}
	return nil
}
