package create_booking

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
	CheckOverlap(ctx context.Context, courtID int64, date time.Time, rng types.TimeRange) (bool, error)
	Create(ctx context.Context, slot *domain.CourtSlot) (*domain.CourtSlot, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	CreateCourt(ctx context.Context, court *domain.BookingCourt) (*domain.BookingCourt, error)
}

// PaymentRepository реестр платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
}

// PriceResolver определяет цену диапазона
type PriceResolver interface {
	Resolve(ctx context.Context, field *domain.Field, q domain.PriceQuery) (*domain.PriceQuote, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчики бронирований
type Metrics interface {
	IncBookingCreated()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
