package get_revenue_stats

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CourtBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings"
	"github.com/m04kA/SMC-CourtBooking/pkg/ptr"
)

const (
	msgUnauthenticated = "authentication required"
	msgInvalidQuery    = "year is required, month must be 1..12"
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

// Handle GET /api/v1/owners/me/revenue?year=&month=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthenticated)
		return
	}

	query, err := parseQuery(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /owners/me/revenue - %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	stats, err := h.service.RevenueStats(r.Context(), caller, query.Year, query.Month)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		h.logger.Error("GET /owners/me/revenue - Failed to compute revenue: owner_id=%d, error=%v", caller.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /owners/me/revenue - owner_id=%d, year=%d, month=%d, total=%d",
		caller.ID, query.Year, ptr.Deref(query.Month), stats.Total)
	handlers.RespondJSON(w, http.StatusOK, stats)
}
