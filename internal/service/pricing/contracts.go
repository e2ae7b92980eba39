package pricing

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// PricingRepository источники цены
type PricingRepository interface {
	GetSpecialTime(ctx context.Context, courtID int64, date time.Time, start types.TimeString) (*domain.CourtSpecialTime, error)
	FindCoveringRule(ctx context.Context, fieldID int64, day time.Weekday, rng types.TimeRange) (*domain.FieldPriceRule, error)
	GetOpeningHours(ctx context.Context, fieldID int64, day time.Weekday) (*domain.OpeningHours, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
