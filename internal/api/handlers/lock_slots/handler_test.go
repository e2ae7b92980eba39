package lock_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/api/middleware"
	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	lockSlots "github.com/m04kA/SMC-CourtBooking/internal/usecase/lock_slots"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got *lockSlots.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *lockSlots.Request) (*lockSlots.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	resp := &lockSlots.Response{}
	for i, l := range req.Locks {
		outcome := domain.LockCreated
		if i > 0 {
			outcome = domain.LockSkipped
		}
		resp.Results = append(resp.Results, lockSlots.LockResult{CourtID: l.CourtID, Range: l.Range, Outcome: outcome})
	}
	return resp, nil
}

func lock(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/fields/3/locks", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"fieldId": "3"})
	req = req.WithContext(middleware.WithCaller(req.Context(), domain.Caller{ID: 100, Role: domain.RoleOwner}))

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_Results(t *testing.T) {
	uc := &fakeUseCase{}
	rec := lock(uc, `{"date":"2025-06-03","locks":[
		{"courtId":1,"start":"08:00","end":"09:00"},
		{"courtId":1,"start":"08:00","end":"09:00"}
	]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LockSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.FieldID)
	assert.Equal(t, "2025-06-03", resp.Date)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "created", resp.Results[0].Outcome)
	assert.Equal(t, "skipped", resp.Results[1].Outcome)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(3), uc.got.FieldID)
	assert.Equal(t, int64(100), uc.got.Caller.ID)
}

func TestHandle_ErrorMapping(t *testing.T) {
	body := `{"date":"2025-06-03","locks":[{"courtId":1,"start":"08:00","end":"09:00"}]}`
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not owner", err: domain.ErrUnauthorized, want: http.StatusForbidden},
		{name: "overlap", err: domain.ErrSlotUnavailable, want: http.StatusConflict},
		{name: "empty range", err: domain.ErrInvalidRange, want: http.StatusBadRequest},
		{name: "unknown field", err: domain.ErrNotFound, want: http.StatusNotFound},
		{name: "internal", err: lockSlots.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := lock(&fakeUseCase{err: tt.err}, body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandle_InvalidBody(t *testing.T) {
	uc := &fakeUseCase{}
	rec := lock(uc, `{"date":"2025-06-03","locks":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.got)
}
