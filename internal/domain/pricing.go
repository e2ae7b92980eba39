package domain

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// PriceTier identifies which pricing source produced a quote
// Tiers are consulted in order: special time, field rule, field default
type PriceTier string

const (
	TierSpecialTime  PriceTier = "special_time"
	TierFieldRule    PriceTier = "field_rule"
	TierFieldDefault PriceTier = "field_default"
)

// GapBoundary selects the boundary used for gap divisibility when a field rule matches
type GapBoundary string

const (
	GapBoundaryRule  GapBoundary = "rule"
	GapBoundaryField GapBoundary = "field"
)

// FieldPriceRule is a recurring price for a field on one weekday
type FieldPriceRule struct {
	ID        int64
	FieldID   int64
	DayOfWeek time.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
	Price     int64
	MinRental int
}

// Range returns the rule's time range
func (r *FieldPriceRule) Range() types.TimeRange {
	return types.TimeRange{Start: r.StartTime, End: r.EndTime}
}

// CourtSpecialTime is a date-specific override for a court
type CourtSpecialTime struct {
	ID        int64
	CourtID   int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Price     int64
	MinRental int
}

// Range returns the special time's range
func (s *CourtSpecialTime) Range() types.TimeRange {
	return types.TimeRange{Start: s.StartTime, End: s.EndTime}
}

// PriceQuery is the input of the pricing resolver
type PriceQuery struct {
	CourtID int64
	FieldID int64
	Date    time.Time
	Range   types.TimeRange
}

// DayOfWeek returns the weekday of the requested date
func (q PriceQuery) DayOfWeek() time.Weekday {
	return q.Date.Weekday()
}

// PriceQuote is the resolved unit price and granularity
type PriceQuote struct {
	Tier      PriceTier
	Price     int64 // price per MinRental minutes
	MinRental int
	Boundary  types.TimeRange
}

// PriceFor returns the price of a range of the given duration
func (q *PriceQuote) PriceFor(durationMinutes int) int64 {
	if q.MinRental <= 0 {
		return 0
	}
	return int64(durationMinutes/q.MinRental) * q.Price
}
