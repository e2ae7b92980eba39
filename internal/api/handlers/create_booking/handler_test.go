package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-CourtBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got  *createBooking.Request
	resp *createBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	return f.resp, f.err
}

const validBody = `{
	"fieldId": 3,
	"date": "2025-06-02",
	"customerName": "Minh",
	"customerPhone": "0901234567",
	"courts": [
		{"courtId": 1, "start": "18:00", "end": "19:00"},
		{"courtId": 2, "start": "18:00", "end": "18:30"}
	]
}`

func doRequest(h *Handler, body string, caller *domain.Caller) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if caller != nil {
		req = req.WithContext(middleware.WithCaller(req.Context(), *caller))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{resp: &createBooking.Response{
		BookingID:  10,
		FieldID:    3,
		Date:       time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Status:     domain.StatusPending,
		TotalPrice: 150000,
		Courts: []domain.BookingCourt{
			{ID: 1, CourtID: 1, StartTime: "18:00", EndTime: "19:00", Price: 100000},
			{ID: 2, CourtID: 2, StartTime: "18:00", EndTime: "18:30", Price: 50000},
		},
		Payment: &domain.PaymentInstructions{Amount: 150000, Message: "Thanh Toan Don 10"},
	}}
	caller := domain.Caller{ID: 5, Role: domain.RoleCustomer}

	rec := doRequest(NewHandler(uc, nopLogger{}), validBody, &caller)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp CreateBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.BookingID)
	assert.Equal(t, "2025-06-02", resp.Date)
	assert.Equal(t, "pending", resp.Status)
	assert.Len(t, resp.Courts, 2)
	assert.Equal(t, "Thanh Toan Don 10", resp.Payment.Message)

	require.NotNil(t, uc.got)
	assert.Equal(t, caller, uc.got.Caller)
	assert.Equal(t, int64(3), uc.got.FieldID)
	require.Len(t, uc.got.Courts, 2)
	assert.Equal(t, types.TimeRange{Start: "18:00", End: "19:00"}, uc.got.Courts[0].Range)
}

func TestHandle_Unauthenticated(t *testing.T) {
	rec := doRequest(NewHandler(&fakeUseCase{}, nopLogger{}), validBody, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_BadRequestBody(t *testing.T) {
	caller := domain.Caller{ID: 5}
	tests := []struct {
		name string
		body string
	}{
		{name: "no courts", body: `{"fieldId":3,"date":"2025-06-02","customerName":"Minh","customerPhone":"1","courts":[]}`},
		{name: "bad date", body: strings.Replace(validBody, "2025-06-02", "02/06/2025", 1)},
		{name: "bad time", body: strings.Replace(validBody, "19:00", "7pm", 1)},
		{name: "not json", body: "booking"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := doRequest(NewHandler(uc, nopLogger{}), tt.body, &caller)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	caller := domain.Caller{ID: 5}
	tests := []struct {
		err  error
		want int
	}{
		{err: createBooking.ErrInvalidInput, want: http.StatusBadRequest},
		{err: domain.ErrInvalidRange, want: http.StatusBadRequest},
		{err: domain.ErrInvalidGranularity, want: http.StatusBadRequest},
		{err: domain.ErrRangeMismatch, want: http.StatusBadRequest},
		{err: domain.ErrPastOrTooSoon, want: http.StatusBadRequest},
		{err: domain.ErrSlotUnavailable, want: http.StatusConflict},
		{err: domain.ErrConfigurationMissing, want: http.StatusUnprocessableEntity},
		{err: domain.ErrNotFound, want: http.StatusNotFound},
		{err: createBooking.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &fakeUseCase{err: fmt.Errorf("wrapped: %w", tt.err)}
			rec := doRequest(NewHandler(uc, nopLogger{}), validBody, &caller)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
