package handlers

import (
	"net/http"
	"strconv"

	"github.com/xpense/xpense-server/internal/auth"
	"github.com/xpense/xpense-server/internal/services"
)

const defaultEventLimit = 50

// EventHandler handles HTTP requests for the caller's audit events.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// List handles the request to get the caller's recent events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	events, err := h.service.ListUserEvents(user.ID, limit)
	if err != nil {
		writeServiceError(w, err, "Failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}
