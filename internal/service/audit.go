package service

import (
	"context"
	"fmt"

	"github.com/pkordes/dealer-inventory/internal/domain"
	"github.com/pkordes/dealer-inventory/internal/repo"
)

// AuditService records and lists the admin audit trail and session log.
type AuditService struct {
	audit repo.AuditRepo
}

func NewAuditService(audit repo.AuditRepo) *AuditService {
	return &AuditService{audit: audit}
}

// Record appends an audit entry. An empty actor is stored as "unknown".
func (s *AuditService) Record(ctx context.Context, entry domain.AuditLog) error {
	if entry.Actor == "" {
		entry.Actor = "unknown"
	}
	if _, err := s.audit.CreateAudit(ctx, entry); err != nil {
		return fmt.Errorf("service.AuditService.Record: %w", err)
	}
	return nil
}

func (s *AuditService) List(ctx context.Context, f domain.AuditFilter, p domain.PaginationParams) (domain.Page[domain.AuditLog], error) {
	items, total, err := s.audit.ListAudit(ctx, f, p)
	if err != nil {
		return domain.Page[domain.AuditLog]{}, fmt.Errorf("service.AuditService.List: %w", err)
	}
	return newPage(items, total), nil
}

// RecordSession appends a session log entry.
func (s *AuditService) RecordSession(ctx context.Context, entry domain.SessionLog) error {
	if entry.Actor == "" {
		entry.Actor = "unknown"
	}
	if err := s.audit.CreateSession(ctx, entry); err != nil {
		return fmt.Errorf("service.AuditService.RecordSession: %w", err)
	}
	return nil
}

func (s *AuditService) ListSessions(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.SessionLog], error) {
	items, total, err := s.audit.ListSessions(ctx, p)
	if err != nil {
		return domain.Page[domain.SessionLog]{}, fmt.Errorf("service.AuditService.ListSessions: %w", err)
	}
	return newPage(items, total), nil
}
