package check_slot_lock

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/service/slots"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

const (
	msgInvalidCourtID = "invalid court id"
	msgInvalidQuery   = "date (YYYY-MM-DD), start and end (HH:MM) are required"
	msgInvalidRange   = "time range is empty or reversed"
	msgNotFound       = "court not found"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/courts/{courtId}/lock?date=&start=&end=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	courtID, err := handlers.PathID(mux.Vars(r), "courtId")
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	q := r.URL.Query()
	date, err := time.Parse(domain.DateFormat, q.Get("date"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}
	rng, err := types.NewTimeRange(q.Get("start"), q.Get("end"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	locked, err := h.service.IsSlotLocked(r.Context(), courtID, date, rng)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidQuery)

		case errors.Is(err, domain.ErrInvalidRange):
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /courts/{id}/lock - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /courts/{id}/lock - Failed to check lock: court_id=%d, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, SlotLockResponse{
		CourtID: courtID,
		Date:    date.Format(domain.DateFormat),
		Start:   rng.Start.String(),
		End:     rng.End.String(),
		Locked:  locked,
	})
}
