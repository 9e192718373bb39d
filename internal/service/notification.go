package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/dealer-inventory/internal/domain"
	"github.com/pkordes/dealer-inventory/internal/repo"
)

// notificationFeedLimit caps the admin notification feed.
const notificationFeedLimit = 50

// NotificationService exposes the admin notification feed.
type NotificationService struct {
	notifications repo.NotificationRepo
}

func NewNotificationService(notifications repo.NotificationRepo) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns the newest notifications, optionally only unread ones.
func (s *NotificationService) List(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	out, err := s.notifications.List(ctx, unreadOnly, notificationFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("service.NotificationService.List: %w", err)
	}
	if out == nil {
		return []domain.Notification{}, nil
	}
	return out, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) (domain.Notification, error) {
	n, err := s.notifications.MarkRead(ctx, id)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("service.NotificationService.MarkRead: %w", err)
	}
	return n, nil
}
