package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

const inquiryNotFound = "inquiry not found"

type inquiryRequest struct {
	VehicleID *uuid.UUID `json:"vehicle_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Message   string     `json:"message"`
}

type inquiryStatusRequest struct {
	Status string `json:"status"`
}

// SubmitInquiry handles POST /inquiries.
func (s *Server) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var body inquiryRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	created, err := s.inquiries.Submit(r.Context(), domain.Inquiry{
		VehicleID: body.VehicleID,
		Name:      body.Name,
		Email:     body.Email,
		Phone:     body.Phone,
		Message:   body.Message,
	})
	if err != nil {
		s.writeError(w, r, err, vehicleNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListInquiries handles GET /admin/inquiries.
// Supports ?status= plus the usual pagination parameters.
func (s *Server) ListInquiries(w http.ResponseWriter, r *http.Request) {
	var status string
	if err := queryParam(r, "status", &status); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	p, err := paginationParams(r)
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	page, err := s.inquiries.List(r.Context(), domain.InquiryStatus(status), p)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(page, p))
}

// GetInquiry handles GET /admin/inquiries/{id}.
func (s *Server) GetInquiry(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	in, err := s.inquiries.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, inquiryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

// UpdateInquiryStatus handles PATCH /admin/inquiries/{id}.
func (s *Server) UpdateInquiryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	var body inquiryStatusRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	in, err := s.inquiries.UpdateStatus(r.Context(), id, domain.InquiryStatus(body.Status))
	if err != nil {
		s.writeError(w, r, err, inquiryNotFound)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) snapshotInquiry(ctx context.Context, id uuid.UUID) (any, error) {
	return s.inquiries.GetByID(ctx, id)
}
