package get_owner_bookings

import (
	"net/http"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
)

const (
	msgUnauthenticated = "authentication required"
	msgInvalidPage     = "page must be a positive integer"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/owners/me/bookings?page=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthenticated)
		return
	}

	page, err := handlers.PageParam(r)
	if err != nil {
		h.logger.Warn("GET /owners/me/bookings - %v", err)
		handlers.RespondBadRequest(w, msgInvalidPage)
		return
	}

	list, err := h.service.ListOwnerBookings(r.Context(), caller, page)
	if err != nil {
		h.logger.Error("GET /owners/me/bookings - Failed to list bookings: owner_id=%d, error=%v", caller.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}
