package handler

import (
	"net/http"

	"github.com/pkordes/dealer-inventory/internal/domain"
)

type notificationFeed struct {
	Data []domain.Notification `json:"data"`
}

// ListNotifications handles GET /admin/notifications.
// ?unread=true restricts the feed to unread items.
func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	var unread *bool
	if err := queryParam(r, "unread", &unread); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	items, err := s.notifications.List(r.Context(), unread != nil && *unread)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, notificationFeed{Data: items})
}

// MarkNotificationRead handles POST /admin/notifications/{id}/read.
func (s *Server) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	n, err := s.notifications.MarkRead(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "notification not found")
		return
	}
	writeJSON(w, http.StatusOK, n)
}
