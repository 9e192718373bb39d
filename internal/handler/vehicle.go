package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

const vehicleNotFound = "vehicle not found"

// vehicleRequest is the body of POST /admin/vehicles and PUT /admin/vehicles/{id}.
// The slug is never accepted from clients.
type vehicleRequest struct {
	Make          string `json:"make"`
	Model         string `json:"model"`
	Year          int    `json:"year"`
	Trim          string `json:"trim"`
	VIN           string `json:"vin"`
	Mileage       int    `json:"mileage"`
	PriceCents    int64  `json:"price_cents"`
	Condition     string `json:"condition"`
	Status        string `json:"status"`
	BodyType      string `json:"body_type"`
	Transmission  string `json:"transmission"`
	FuelType      string `json:"fuel_type"`
	ExteriorColor string `json:"exterior_color"`
	Description   string `json:"description"`
	Featured      bool   `json:"featured"`
}

func (b vehicleRequest) toDomain(id uuid.UUID) domain.Vehicle {
	return domain.Vehicle{
		ID:            id,
		Make:          b.Make,
		Model:         b.Model,
		Year:          b.Year,
		Trim:          b.Trim,
		VIN:           strings.ToUpper(strings.TrimSpace(b.VIN)),
		Mileage:       b.Mileage,
		PriceCents:    b.PriceCents,
		Condition:     domain.VehicleCondition(b.Condition),
		Status:        domain.VehicleStatus(b.Status),
		BodyType:      b.BodyType,
		Transmission:  b.Transmission,
		FuelType:      b.FuelType,
		ExteriorColor: b.ExteriorColor,
		Description:   b.Description,
		Featured:      b.Featured,
	}
}

type bulkRequest struct {
	IDs    []uuid.UUID `json:"ids"`
	Action string      `json:"action"`
	Status string      `json:"status"`
}

type bulkResponse struct {
	Results []domain.BulkItemResult `json:"results"`
}

// ---- public ----------------------------------------------------------------

// ListPublicVehicles handles GET /vehicles.
// Only active, non-draft listings are returned.
func (s *Server) ListPublicVehicles(w http.ResponseWriter, r *http.Request) {
	f, err := vehicleFilter(r, false)
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	f.PublicOnly = true
	s.listVehicles(w, r, f)
}

// GetPublicVehicle handles GET /vehicles/{slug}.
func (s *Server) GetPublicVehicle(w http.ResponseWriter, r *http.Request) {
	detail, err := s.vehicles.GetPublicBySlug(r.Context(), urlSlug(r))
	if err != nil {
		s.writeError(w, r, err, vehicleNotFound)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// ---- admin -----------------------------------------------------------------

// ListVehicles handles GET /admin/vehicles.
// Adds ?status= and ?include_deleted= to the public filters.
func (s *Server) ListVehicles(w http.ResponseWriter, r *http.Request) {
	f, err := vehicleFilter(r, true)
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	s.listVehicles(w, r, f)
}

func (s *Server) listVehicles(w http.ResponseWriter, r *http.Request, f domain.VehicleFilter) {
	p, err := paginationParams(r)
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	page, err := s.vehicles.List(r.Context(), f, p)
	if err != nil {
		s.writeError(w, r, err, vehicleNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(page, p))
}

// CreateVehicle handles POST /admin/vehicles. The created vehicle carries
// its assigned slug.
func (s *Server) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var body vehicleRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	created, err := s.vehicles.Create(r.Context(), body.toDomain(uuid.Nil))
	if err != nil {
		s.writeError(w, r, err, vehicleNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetVehicle handles GET /admin/vehicles/{id}.
func (s *Server) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	v, err := s.vehicles.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, vehicleNotFound)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// UpdateVehicle handles PUT /admin/vehicles/{id}.
func (s *Server) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	var body vehicleRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	updated, err := s.vehicles.Update(r.Context(), body.toDomain(id))
	if err != nil {
		s.writeError(w, r, err, vehicleNotFound)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteVehicle handles DELETE /admin/vehicles/{id}. The vehicle is soft
// deleted and its slug becomes free for reuse.
func (s *Server) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	if _, err := s.vehicles.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err, vehicleNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegenerateVehicleSlug handles POST /admin/vehicles/{id}/regenerate-slug.
func (s *Server) RegenerateVehicleSlug(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	v, err := s.vehicles.RegenerateSlug(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, vehicleNotFound)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// BulkVehicles handles POST /admin/vehicles/bulk. The response is 200 even
// when some items fail; each result reports its own outcome.
func (s *Server) BulkVehicles(w http.ResponseWriter, r *http.Request) {
	var body bulkRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	results, err := s.vehicles.Bulk(r.Context(), domain.BulkRequest{
		IDs:    body.IDs,
		Action: domain.BulkAction(body.Action),
		Status: domain.VehicleStatus(body.Status),
	})
	if err != nil {
		s.writeError(w, r, err, vehicleNotFound)
		return
	}
	writeJSON(w, http.StatusOK, bulkResponse{Results: results})
}

// BackfillSlugs handles POST /admin/vehicles/backfill-slugs.
func (s *Server) BackfillSlugs(w http.ResponseWriter, r *http.Request) {
	report, err := s.slugs.BackfillMissingSlugs(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// snapshotVehicle loads a vehicle for audit before/after capture.
func (s *Server) snapshotVehicle(ctx context.Context, id uuid.UUID) (any, error) {
	return s.vehicles.GetByID(ctx, id)
}

// ---- mapping helpers -------------------------------------------------------

func urlSlug(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(chi.URLParam(r, "slug")))
}

// vehicleFilter reads the search query parameters. admin enables the
// status and include_deleted filters.
func vehicleFilter(r *http.Request, admin bool) (domain.VehicleFilter, error) {
	var (
		q, vehicleMake, vehicleModel string
		condition, bodyType, sort    string
		minYear, maxYear             *int
		minPrice, maxPrice           *int64
		featured                     *bool
	)
	binds := []struct {
		name string
		dest any
	}{
		{"q", &q},
		{"make", &vehicleMake},
		{"model", &vehicleModel},
		{"condition", &condition},
		{"body_type", &bodyType},
		{"sort", &sort},
		{"min_year", &minYear},
		{"max_year", &maxYear},
		{"min_price", &minPrice},
		{"max_price", &maxPrice},
		{"featured", &featured},
	}
	for _, b := range binds {
		if err := queryParam(r, b.name, b.dest); err != nil {
			return domain.VehicleFilter{}, err
		}
	}

	f := domain.VehicleFilter{
		Query:     strings.TrimSpace(q),
		Make:      strings.TrimSpace(vehicleMake),
		Model:     strings.TrimSpace(vehicleModel),
		Condition: domain.VehicleCondition(condition),
		BodyType:  strings.TrimSpace(bodyType),
		Sort:      domain.VehicleSort(sort),
		Featured:  featured,
	}
	if minYear != nil {
		f.MinYear = *minYear
	}
	if maxYear != nil {
		f.MaxYear = *maxYear
	}
	if minPrice != nil {
		f.MinPriceCents = *minPrice
	}
	if maxPrice != nil {
		f.MaxPriceCents = *maxPrice
	}

	if admin {
		var status string
		var includeDeleted *bool
		if err := queryParam(r, "status", &status); err != nil {
			return domain.VehicleFilter{}, err
		}
		if err := queryParam(r, "include_deleted", &includeDeleted); err != nil {
			return domain.VehicleFilter{}, err
		}
		f.Status = domain.VehicleStatus(status)
		f.IncludeDeleted = includeDeleted != nil && *includeDeleted
	}
	return f, nil
}
