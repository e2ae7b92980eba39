package lock_slots

import (
	"context"

	lockSlots "github.com/m04kA/SMC-CourtBooking/internal/usecase/lock_slots"
)

type LockSlotsUseCase interface {
	Execute(ctx context.Context, req *lockSlots.Request) (*lockSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
