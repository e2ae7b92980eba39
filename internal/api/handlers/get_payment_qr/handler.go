package get_payment_qr

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

const (
	msgUnauthenticated  = "authentication required"
	msgInvalidBookingID = "invalid booking id"
	msgNotFound         = "booking not found"
	msgForbidden        = "only the customer who made the booking can request payment details"
	msgAlreadyProcessed = "booking is no longer awaiting payment"
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

// Handle GET /api/v1/bookings/{bookingId}/payment-qr
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthenticated)
		return
	}

	bookingID, err := handlers.PathID(mux.Vars(r), "bookingId")
	if err != nil {
		h.logger.Warn("GET /bookings/{id}/payment-qr - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	qr, err := h.service.GetPaymentQRCode(r.Context(), caller, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrUnauthorized):
			h.logger.Warn("GET /bookings/{id}/payment-qr - Access denied: booking_id=%d, user_id=%d", bookingID, caller.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrAlreadyProcessed):
			handlers.RespondConflict(w, msgAlreadyProcessed)

		default:
			h.logger.Error("GET /bookings/{id}/payment-qr - Failed to build payment QR: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, qr)
}
