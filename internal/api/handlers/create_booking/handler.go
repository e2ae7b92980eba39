package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-CourtBooking/internal/usecase/create_booking"
)

const (
	msgUnauthenticated      = "authentication required"
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidDateOrTime    = "invalid date or time, expected YYYY-MM-DD and HH:MM"
	msgInvalidInput         = "invalid booking request"
	msgInvalidRange         = "time range is empty or reversed"
	msgInvalidGranularity   = "time range is not aligned to the minimum rental"
	msgRangeMismatch        = "time range does not match the special time"
	msgPastOrTooSoon        = "slot is in the past or starts too soon"
	msgSlotUnavailable      = "selected slot is not available"
	msgConfigurationMissing = "no pricing is configured for the selected time"
	msgNotFound             = "field or court not found"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthenticated)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: user_id=%d, error=%v", caller.ID, err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err, msgInvalidRequestBody))
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(caller)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: user_id=%d, error=%v", caller.ID, err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", caller.ID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, domain.ErrInvalidRange):
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, domain.ErrInvalidGranularity):
			handlers.RespondBadRequest(w, msgInvalidGranularity)

		case errors.Is(err, domain.ErrRangeMismatch):
			handlers.RespondBadRequest(w, msgRangeMismatch)

		case errors.Is(err, domain.ErrPastOrTooSoon):
			h.logger.Warn("POST /bookings - Too late to book: user_id=%d, field_id=%d", caller.ID, req.FieldID)
			handlers.RespondBadRequest(w, msgPastOrTooSoon)

		case errors.Is(err, domain.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, field_id=%d", caller.ID, req.FieldID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, domain.ErrConfigurationMissing):
			h.logger.Warn("POST /bookings - Pricing not configured: field_id=%d, error=%v", req.FieldID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgConfigurationMissing)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("POST /bookings - Not found: field_id=%d, error=%v", req.FieldID, err)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, field_id=%d, error=%v",
				caller.ID, req.FieldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, user_id=%d, total=%d",
		result.BookingID, caller.ID, result.TotalPrice)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
