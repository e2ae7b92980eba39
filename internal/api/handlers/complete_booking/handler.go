package complete_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

const (
	msgUnauthenticated   = "authentication required"
	msgInvalidBookingID  = "invalid booking id"
	msgNotFound          = "booking not found"
	msgForbidden         = "only the venue owner can complete a booking"
	msgAlreadyCompleted  = "booking is already completed"
	msgInvalidTransition = "only a confirmed booking can be completed"
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

// Handle PATCH /api/v1/bookings/{bookingId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthenticated)
		return
	}

	bookingID, err := handlers.PathID(mux.Vars(r), "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/complete - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.Complete(r.Context(), caller, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrUnauthorized):
			h.logger.Warn("PATCH /bookings/{id}/complete - Access denied: booking_id=%d, user_id=%d", bookingID, caller.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrAlreadyCompleted):
			handlers.RespondConflict(w, msgAlreadyCompleted)

		case errors.Is(err, domain.ErrInvalidTransition):
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /bookings/{id}/complete - Failed to complete booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/complete - Booking completed: booking_id=%d, owner_id=%d", bookingID, caller.ID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
