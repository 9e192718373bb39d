package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies admin notifications.
type NotificationKind string

// NotificationNewInquiry is raised whenever a buyer submits an inquiry.
const NotificationNewInquiry NotificationKind = "new_inquiry"

// Notification is an item in the back-office notification feed.
// ReadAt is nil until an operator marks it read.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	EntityID  *uuid.UUID       `json:"entity_id,omitempty"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
