// Package domain contains the core data types for the dealer inventory API.
// This package has no dependencies beyond uuid and is imported by every other
// internal package (slug, repo, service, handler).
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// VehicleStatus is the sales state of a vehicle.
type VehicleStatus string

const (
	StatusDraft     VehicleStatus = "draft"
	StatusAvailable VehicleStatus = "available"
	StatusPending   VehicleStatus = "pending"
	StatusSold      VehicleStatus = "sold"
)

// Valid reports whether s is one of the known statuses.
func (s VehicleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusAvailable, StatusPending, StatusSold:
		return true
	}
	return false
}

// VehicleCondition distinguishes new stock from used and certified pre-owned.
type VehicleCondition string

const (
	ConditionNew       VehicleCondition = "new"
	ConditionUsed      VehicleCondition = "used"
	ConditionCertified VehicleCondition = "certified"
)

// Valid reports whether c is one of the known conditions.
func (c VehicleCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionUsed, ConditionCertified:
		return true
	}
	return false
}

// Vehicle is a single listing in the dealership inventory.
//
// Slug is the public identifier used in listing URLs. It is assigned once by
// the slug service when the vehicle is created and never recomputed on
// update, so public links stay stable even when make/model/year are edited.
// An empty Slug only occurs on legacy rows awaiting backfill.
//
// DeletedAt marks a soft-deleted vehicle. Deleted vehicles are hidden from
// every listing and release their slug for reuse.
type Vehicle struct {
	ID            uuid.UUID        `json:"id"`
	Slug          string           `json:"slug"`
	Make          string           `json:"make"`
	Model         string           `json:"model"`
	Year          int              `json:"year"`
	Trim          string           `json:"trim,omitempty"`
	VIN           string           `json:"vin,omitempty"`
	Mileage       int              `json:"mileage"`
	PriceCents    int64            `json:"price_cents"`
	Condition     VehicleCondition `json:"condition"`
	Status        VehicleStatus    `json:"status"`
	BodyType      string           `json:"body_type,omitempty"`
	Transmission  string           `json:"transmission,omitempty"`
	FuelType      string           `json:"fuel_type,omitempty"`
	ExteriorColor string           `json:"exterior_color,omitempty"`
	Description   string           `json:"description,omitempty"`
	Featured      bool             `json:"featured"`
	Images        []VehicleImage   `json:"images,omitempty"`
	DeletedAt     *time.Time       `json:"deleted_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Identity returns a short label for logs and error messages: the id when the
// vehicle is persisted, otherwise "year make model".
func (v Vehicle) Identity() string {
	if v.ID != uuid.Nil {
		return v.ID.String()
	}
	return fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model)
}

// VehicleDetail is the public view of a listing: the vehicle with its
// images and the description rendered to sanitized HTML.
type VehicleDetail struct {
	Vehicle
	DescriptionHTML string `json:"description_html,omitempty"`
}

// VehicleImage is a photo stored in object storage and attached to a vehicle.
// Images are ordered by Position ascending.
type VehicleImage struct {
	ID          uuid.UUID `json:"id"`
	VehicleID   uuid.UUID `json:"vehicle_id"`
	ObjectKey   string    `json:"object_key"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

// VehicleSort names the supported result orderings for vehicle searches.
type VehicleSort string

const (
	SortNewest    VehicleSort = "newest"
	SortPriceAsc  VehicleSort = "price_asc"
	SortPriceDesc VehicleSort = "price_desc"
	SortYearDesc  VehicleSort = "year_desc"
	SortMileage   VehicleSort = "mileage_asc"
)

// Valid reports whether s is a known sort order.
func (s VehicleSort) Valid() bool {
	switch s {
	case SortNewest, SortPriceAsc, SortPriceDesc, SortYearDesc, SortMileage:
		return true
	}
	return false
}

// VehicleFilter narrows a vehicle search. Zero values mean "no constraint".
//
// PublicOnly restricts results to listings visible on the public site
// (non-draft). IncludeDeleted is honoured only by admin listings.
type VehicleFilter struct {
	Query          string
	Make           string
	Model          string
	MinYear        int
	MaxYear        int
	MinPriceCents  int64
	MaxPriceCents  int64
	Condition      VehicleCondition
	Status         VehicleStatus
	BodyType       string
	Featured       *bool
	Sort           VehicleSort
	PublicOnly     bool
	IncludeDeleted bool
}

// BackfillFailure records why a single vehicle could not be given a slug.
type BackfillFailure struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

// BackfillReport is the outcome of a slug backfill pass. Succeeded and
// Failed are never nil so the JSON form always carries both arrays.
type BackfillReport struct {
	Succeeded []uuid.UUID       `json:"succeeded"`
	Failed    []BackfillFailure `json:"failed"`
}
