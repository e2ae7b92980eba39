package lock_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// DirectoryRepository справочник полей и кортов
type DirectoryRepository interface {
	GetFieldWithVenue(ctx context.Context, fieldID int64) (*domain.FieldWithVenue, error)
	GetCourt(ctx context.Context, courtID int64) (*domain.Court, error)
}

// SlotStore хранилище блокировок слотов
type SlotStore interface {
	LockCourtDay(ctx context.Context, courtID int64, date time.Time) error
	Exists(ctx context.Context, courtID int64, rng types.TimeRange, date time.Time) (bool, error)
	CheckOverlap(ctx context.Context, courtID int64, date time.Time, rng types.TimeRange) (bool, error)
	Create(ctx context.Context, slot *domain.CourtSlot) (*domain.CourtSlot, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
