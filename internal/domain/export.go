package domain

import (
	"strconv"
	"time"
)

// ExportRow is a single row in the inventory export.
// It is a flat, denormalized view: one row per active vehicle, with the
// number of attached images and open inquiries folded in so the sheet can be
// read without joining anything.
type ExportRow struct {
	ID            string
	Slug          string
	Year          int
	Make          string
	Model         string
	Trim          string
	VIN           string
	Mileage       int
	PriceCents    int64
	Condition     string
	Status        string
	Featured      bool
	ImageCount    int
	OpenInquiries int
	CreatedAt     time.Time
}

// ExportColumns is the header line of the CSV export, in Record order.
var ExportColumns = []string{
	"id", "slug", "year", "make", "model", "trim", "vin", "mileage",
	"price_cents", "condition", "status", "featured", "image_count",
	"open_inquiries", "created_at",
}

// Record encodes r as one CSV record matching ExportColumns.
func (r ExportRow) Record() []string {
	return []string{
		r.ID,
		r.Slug,
		strconv.Itoa(r.Year),
		r.Make,
		r.Model,
		r.Trim,
		r.VIN,
		strconv.Itoa(r.Mileage),
		strconv.FormatInt(r.PriceCents, 10),
		r.Condition,
		r.Status,
		strconv.FormatBool(r.Featured),
		strconv.Itoa(r.ImageCount),
		strconv.Itoa(r.OpenInquiries),
		r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
