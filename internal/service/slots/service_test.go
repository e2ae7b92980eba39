package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	directoryRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/directory"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeStore struct {
	slots []domain.CourtSlot
}

func (s *fakeStore) CheckOverlap(_ context.Context, courtID int64, date time.Time, rng types.TimeRange) (bool, error) {
	for _, sl := range s.slots {
		if sl.CourtID == courtID && sl.Date.Equal(date) && sl.Range().Overlaps(rng) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) GetCourt(_ context.Context, courtID int64) (*domain.Court, error) {
	if courtID == 1 {
		return &domain.Court{ID: 1, FieldID: 10}, nil
	}
	return nil, directoryRepo.ErrCourtNotFound
}

func TestIsSlotLocked(t *testing.T) {
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{slots: []domain.CourtSlot{
		domain.NewOwnerLock(1, date, types.TimeRange{Start: "18:00", End: "20:00"}),
	}}
	svc := NewService(store, store, nopLogger{})

	tests := []struct {
		name   string
		start  types.TimeString
		end    types.TimeString
		locked bool
	}{
		{"exact match", "18:00", "20:00", true},
		{"partial overlap", "19:30", "20:30", true},
		{"inside", "18:30", "19:00", true},
		{"touching end", "20:00", "21:00", false},
		{"before", "16:00", "18:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locked, err := svc.IsSlotLocked(context.Background(), 1, date, types.TimeRange{Start: tt.start, End: tt.end})
			require.NoError(t, err)
			assert.Equal(t, tt.locked, locked)
		})
	}

	_, err := svc.IsSlotLocked(context.Background(), 2, date, types.TimeRange{Start: "18:00", End: "19:00"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.IsSlotLocked(context.Background(), 1, date, types.TimeRange{Start: "19:00", End: "18:00"})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}
