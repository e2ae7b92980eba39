package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// SlotStore хранилище блокировок слотов
type SlotStore interface {
	CheckOverlap(ctx context.Context, courtID int64, date time.Time, rng types.TimeRange) (bool, error)
}

// CourtRepository справочник кортов
type CourtRepository interface {
	GetCourt(ctx context.Context, courtID int64) (*domain.Court, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
