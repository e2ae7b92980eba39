package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/integrations/notifier"
	"github.com/m04kA/SMC-CourtBooking/internal/integrations/userservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64, filter domain.BookingListFilter) ([]*domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, filter domain.BookingListFilter) ([]*domain.Booking, error)
	SumCompletedByUser(ctx context.Context, userID int64) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	ListRevenueRows(ctx context.Context, filter domain.RevenueFilter) ([]domain.RevenueRow, error)
}

// PaymentRepository реестр платежей
type PaymentRepository interface {
	UpdateStatusByBooking(ctx context.Context, bookingID int64, status domain.PaymentStatus) error
}

// SlotStore хранилище блокировок слотов
type SlotStore interface {
	DeleteByBooking(ctx context.Context, bookingID int64) (int64, error)
}

// DirectoryRepository справочник полей и площадок
type DirectoryRepository interface {
	GetFieldWithVenue(ctx context.Context, fieldID int64) (*domain.FieldWithVenue, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUserWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.User, error)
}

// Notifier публикует уведомления владельцам
type Notifier interface {
	PublishBookingConfirmed(ctx context.Context, msg *notifier.BookingConfirmed) error
}

// RevenueCache кэш статистики выручки
type RevenueCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счётчики жизненного цикла бронирований
type Metrics interface {
	IncBookingTransition(to string)
	IncNotification(result string)
	IncCacheRequest(result string)
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

type nopMetrics struct{}

func (nopMetrics) IncBookingTransition(string) {}
func (nopMetrics) IncNotification(string)      {}
func (nopMetrics) IncCacheRequest(string)      {}
