package create_booking

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// CourtRequest запрошенный диапазон на корте
type CourtRequest struct {
	CourtID int64
	Range   types.TimeRange
}

// Request модель запроса на создание бронирования
type Request struct {
	Caller        domain.Caller
	FieldID       int64
	Date          time.Time // Дата бронирования (без времени)
	CustomerName  string
	CustomerPhone string
	Courts        []CourtRequest // Порядок важен: проверки и сохранение идут в порядке запроса
}

// Response модель ответа с созданным бронированием и реквизитами оплаты
type Response struct {
	BookingID  int64
	FieldID    int64
	Date       time.Time
	Status     domain.BookingStatus
	TotalPrice int64
	Courts     []domain.BookingCourt
	Payment    *domain.PaymentInstructions
	CreatedAt  time.Time
}

// plannedRange провалидированный и оценённый диапазон, ещё не сохранённый
type plannedRange struct {
	courtID int64
	rng     types.TimeRange
	quote   *domain.PriceQuote
	price   int64
}
