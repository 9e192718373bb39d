package handler

import (
	"net/http"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

// ListAuditLogs handles GET /admin/audit-logs.
// Supports ?entity_type= and ?entity_id= filters.
func (s *Server) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	var f domain.AuditFilter
	if err := queryParam(r, "entity_type", &f.EntityType); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	if err := queryParam(r, "entity_id", &f.EntityID); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	p, err := paginationParams(r)
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	page, err := s.audit.List(r.Context(), f, p)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(page, p))
}

// ListSessionLogs handles GET /admin/session-logs.
func (s *Server) ListSessionLogs(w http.ResponseWriter, r *http.Request) {
	p, err := paginationParams(r)
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	page, err := s.audit.ListSessions(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(page, p))
}
