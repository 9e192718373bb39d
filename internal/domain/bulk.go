package domain

import "github.com/google/uuid"

// BulkAction is an operation applied to many vehicles in one request.
type BulkAction string

const (
	BulkSetStatus BulkAction = "set_status"
	BulkDelete    BulkAction = "delete"
	BulkFeature   BulkAction = "feature"
	BulkUnfeature BulkAction = "unfeature"
)

// Valid reports whether a is a known bulk action.
func (a BulkAction) Valid() bool {
	switch a {
	case BulkSetStatus, BulkDelete, BulkFeature, BulkUnfeature:
		return true
	}
	return false
}

// BulkRequest selects vehicles by id and the action to apply to each.
// Status is required only for BulkSetStatus.
type BulkRequest struct {
	IDs    []uuid.UUID
	Action BulkAction
	Status VehicleStatus
}

// BulkItemResult is the per-vehicle outcome of a bulk operation.
// Error is empty on success.
type BulkItemResult struct {
	ID    uuid.UUID `json:"id"`
	OK    bool      `json:"ok"`
	Error string    `json:"error,omitempty"`
}

// MaxBulkItems caps how many vehicles a single bulk request may touch.
const MaxBulkItems = 200
