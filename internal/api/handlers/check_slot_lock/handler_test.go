package check_slot_lock

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/service/slots"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	locked bool
	err    error
	called bool
}

func (f *fakeService) IsSlotLocked(_ context.Context, _ int64, _ time.Time, _ types.TimeRange) (bool, error) {
	f.called = true
	return f.locked, f.err
}

func check(svc *fakeService, courtID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/courts/"+courtID+"/lock"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"courtId": courtID})
	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_Locked(t *testing.T) {
	rec := check(&fakeService{locked: true}, "4", "?date=2025-06-03&start=08:00&end=09:00")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SlotLockResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, SlotLockResponse{CourtID: 4, Date: "2025-06-03", Start: "08:00", End: "09:00", Locked: true}, resp)
}

func TestHandle_BadQuery(t *testing.T) {
	tests := []struct {
		name    string
		courtID string
		query   string
	}{
		{name: "bad court", courtID: "x", query: "?date=2025-06-03&start=08:00&end=09:00"},
		{name: "no date", courtID: "4", query: "?start=08:00&end=09:00"},
		{name: "bad start", courtID: "4", query: "?date=2025-06-03&start=8am&end=09:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			rec := check(svc, tt.courtID, tt.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, svc.called)
		})
	}
}

func TestHandle_ServiceErrors(t *testing.T) {
	query := "?date=2025-06-03&start=09:00&end=08:00"
	assert.Equal(t, http.StatusBadRequest, check(&fakeService{err: domain.ErrInvalidRange}, "4", query).Code)
	assert.Equal(t, http.StatusBadRequest, check(&fakeService{err: slots.ErrInvalidInput}, "4", query).Code)
	assert.Equal(t, http.StatusNotFound, check(&fakeService{err: domain.ErrNotFound}, "4", query).Code)
	assert.Equal(t, http.StatusInternalServerError, check(&fakeService{err: slots.ErrInternal}, "4", query).Code)
}
