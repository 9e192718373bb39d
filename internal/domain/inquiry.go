package domain

import (
	"time"

	"github.com/google/uuid"
)

// InquiryStatus tracks how far the sales team has progressed with an inquiry.
type InquiryStatus string

const (
	InquiryNew       InquiryStatus = "new"
	InquiryContacted InquiryStatus = "contacted"
	InquiryClosed    InquiryStatus = "closed"
)

// Valid reports whether s is one of the known inquiry statuses.
func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryNew, InquiryContacted, InquiryClosed:
		return true
	}
	return false
}

// Inquiry is a message from a prospective buyer submitted on the public site.
// VehicleID is nil for general inquiries not tied to a listing.
type Inquiry struct {
	ID        uuid.UUID     `json:"id"`
	VehicleID *uuid.UUID    `json:"vehicle_id,omitempty"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	Message   string        `json:"message"`
	Status    InquiryStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
