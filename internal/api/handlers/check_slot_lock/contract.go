package check_slot_lock

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

type SlotService interface {
	IsSlotLocked(ctx context.Context, courtID int64, date time.Time, rng types.TimeRange) (bool, error)
}

type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
