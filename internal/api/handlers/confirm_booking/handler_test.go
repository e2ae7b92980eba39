package confirm_booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	gotID int64
	err   error
}

func (f *fakeService) Confirm(_ context.Context, _ domain.Caller, bookingID int64) (*models.BookingResponse, error) {
	f.gotID = bookingID
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: bookingID, Status: string(domain.StatusConfirmed)}, nil
}

func confirm(svc *fakeService, bookingID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+bookingID+"/confirm", nil)
	req = mux.SetURLVars(req, map[string]string{"bookingId": bookingID})
	req = req.WithContext(middleware.WithCaller(req.Context(), domain.Caller{ID: 5}))

	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{}
	rec := confirm(svc, "12")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), svc.gotID)
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
}

func TestHandle_InvalidID(t *testing.T) {
	svc := &fakeService{}
	rec := confirm(svc, "abc")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.gotID)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: domain.ErrNotFound, want: http.StatusNotFound},
		{err: domain.ErrUnauthorized, want: http.StatusForbidden},
		{err: domain.ErrPaymentOverdue, want: http.StatusGone},
		{err: domain.ErrAlreadyConfirmed, want: http.StatusConflict},
		{err: domain.ErrAlreadyCompleted, want: http.StatusConflict},
		{err: domain.ErrInvalidTransition, want: http.StatusConflict},
		{err: errors.New("db is down"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := confirm(&fakeService{err: fmt.Errorf("Confirm: %w", tt.err)}, "12")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
