package types

import (
	"errors"
	"fmt"
)

// ErrEmptyRange возвращается, когда конец диапазона не позже начала
var ErrEmptyRange = errors.New("time range is empty or reversed")

// TimeRange полуоткрытый интервал [Start, End) внутри суток
type TimeRange struct {
	Start TimeString
	End   TimeString
}

// NewTimeRange парсит пару строк HH:MM
func NewTimeRange(start, end string) (TimeRange, error) {
	s, err := NewTimeStringFromString(start)
	if err != nil {
		return TimeRange{}, err
	}
	e, err := NewTimeStringFromString(end)
	if err != nil {
		return TimeRange{}, err
	}
	return TimeRange{Start: s, End: e}, nil
}

// Duration длительность в минутах, может быть отрицательной
func (r TimeRange) Duration() int {
	return r.End.Minutes() - r.Start.Minutes()
}

// Overlaps строгое пересечение, касание границ пересечением не считается
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.IsBefore(other.End) && r.End.IsAfter(other.Start)
}

// Covers проверяет, что other целиком лежит внутри r
func (r TimeRange) Covers(other TimeRange) bool {
	return r.Start.Minutes() <= other.Start.Minutes() && r.End.Minutes() >= other.End.Minutes()
}

func (r TimeRange) Equal(other TimeRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

// Gaps возвращает отступы от начала boundary до начала r и от конца r до конца boundary
func (r TimeRange) Gaps(boundary TimeRange) (toOpen, toClose int) {
	return r.Start.Minutes() - boundary.Start.Minutes(), boundary.End.Minutes() - r.End.Minutes()
}

// Split режет диапазон на последовательные куски длиной step минут
func (r TimeRange) Split(step int) ([]TimeRange, error) {
	duration := r.Duration()
	if duration <= 0 {
		return nil, ErrEmptyRange
	}
	if !DivisibleBy(duration, step) {
		return nil, fmt.Errorf("duration %d is not divisible by %d", duration, step)
	}

	parts := make([]TimeRange, 0, duration/step)
	for offset := 0; offset < duration; offset += step {
		start, err := r.Start.AddMinutes(offset)
		if err != nil {
			return nil, err
		}
		end, err := start.AddMinutes(step)
		if err != nil {
			return nil, err
		}
		parts = append(parts, TimeRange{Start: start, End: end})
	}
	return parts, nil
}

func (r TimeRange) String() string {
	return fmt.Sprintf("%s - %s", r.Start, r.End)
}

// DivisibleBy проверяет кратность minutes шагу step
func DivisibleBy(minutes, step int) bool {
	if step <= 0 {
		return false
	}
	return minutes%step == 0
}
