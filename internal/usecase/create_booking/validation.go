package create_booking

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Caller.ID <= 0 {
		return fmt.Errorf("%w: caller is required", ErrInvalidInput)
	}

	if req.FieldID <= 0 {
		return fmt.Errorf("%w: fieldID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.CustomerName == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.CustomerName) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName is too long", ErrInvalidInput)
	}

	if req.CustomerPhone == "" {
		return fmt.Errorf("%w: customerPhone is required", ErrInvalidInput)
	}

	if len(req.Courts) == 0 {
		return fmt.Errorf("%w: at least one court range is required", ErrInvalidInput)
	}

	for i, cr := range req.Courts {
		if cr.CourtID <= 0 {
			return fmt.Errorf("%w: courts[%d]: courtID must be positive", ErrInvalidInput, i)
		}
		if err := cr.Range.Start.Validate(); err != nil {
			return fmt.Errorf("%w: courts[%d]: invalid startTime: %v", ErrInvalidInput, i, err)
		}
		if err := cr.Range.End.Validate(); err != nil {
			return fmt.Errorf("%w: courts[%d]: invalid endTime: %v", ErrInvalidInput, i, err)
		}
	}

	return nil
}

// validateNotice проверяет, что слот заканчивается не раньше чем через BookingNoticePeriod
func validateNotice(date time.Time, rng types.TimeRange, now time.Time, loc *time.Location) error {
	end := rng.End.On(date, loc)
	if end.Before(now.Add(domain.BookingNoticePeriod)) {
		return fmt.Errorf("%w: slot %s on %s ends before %s",
			domain.ErrPastOrTooSoon, rng, date.Format(domain.DateFormat), now.Add(domain.BookingNoticePeriod).In(loc).Format(time.RFC3339))
	}
	return nil
}
