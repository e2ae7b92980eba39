package lock_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	lockSlots "github.com/m04kA/SMC-CourtBooking/internal/usecase/lock_slots"
)

const (
	msgUnauthenticated    = "authentication required"
	msgInvalidFieldID     = "invalid field id"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDateOrTime  = "invalid date or time, expected YYYY-MM-DD and HH:MM"
	msgInvalidInput       = "invalid lock request"
	msgInvalidRange       = "time range is empty or reversed"
	msgForbidden          = "only the venue owner can lock slots"
	msgNotFound           = "field or court not found"
	msgSlotUnavailable    = "range overlaps an existing booking or lock"
)

type Handler struct {
	useCase LockSlotsUseCase
	logger  Logger
}

func NewHandler(useCase LockSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/fields/{fieldId}/locks
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthenticated)
		return
	}

	fieldID, err := handlers.PathID(mux.Vars(r), "fieldId")
	if err != nil {
		h.logger.Warn("POST /fields/{id}/locks - Invalid field ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFieldID)
		return
	}

	var req LockSlotsRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /fields/{id}/locks - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err, msgInvalidRequestBody))
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(caller, fieldID)
	if err != nil {
		h.logger.Warn("POST /fields/{id}/locks - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, lockSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, domain.ErrInvalidRange):
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, domain.ErrUnauthorized):
			h.logger.Warn("POST /fields/{id}/locks - Access denied: field_id=%d, user_id=%d", fieldID, caller.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrSlotUnavailable):
			h.logger.Warn("POST /fields/{id}/locks - Overlap: field_id=%d, error=%v", fieldID, err)
			handlers.RespondConflict(w, msgSlotUnavailable)

		default:
			h.logger.Error("POST /fields/{id}/locks - Failed to lock slots: field_id=%d, error=%v", fieldID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /fields/{id}/locks - Processed %d locks: field_id=%d, owner_id=%d",
		len(result.Results), fieldID, caller.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(fieldID, useCaseReq.Date, result))
}
