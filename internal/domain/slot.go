package domain

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// CourtSlot is the atomic reservation unit on a court and date
// An owner lock has LockedByOwner set and no BookingCourtID
type CourtSlot struct {
	ID             int64
	CourtID        int64
	BookingCourtID *int64
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
	IsLocked       bool
	LockedByOwner  bool
}

// Range returns the slot's time range
func (s *CourtSlot) Range() types.TimeRange {
	return types.TimeRange{Start: s.StartTime, End: s.EndTime}
}

// IsOwnerLock returns true if the slot blocks the court without a booking
func (s *CourtSlot) IsOwnerLock() bool {
	return s.LockedByOwner && s.BookingCourtID == nil
}

// NewBookingSlots splits a booked court range into min_rental sized slots
func NewBookingSlots(courtID, bookingCourtID int64, date time.Time, rng types.TimeRange, minRental int) ([]CourtSlot, error) {
	parts, err := rng.Split(minRental)
	if err != nil {
		return nil, err
	}

	slots := make([]CourtSlot, 0, len(parts))
	for _, p := range parts {
		id := bookingCourtID
		slots = append(slots, CourtSlot{
			CourtID:        courtID,
			BookingCourtID: &id,
			Date:           date,
			StartTime:      p.Start,
			EndTime:        p.End,
			IsLocked:       true,
			LockedByOwner:  false,
		})
	}
	return slots, nil
}

// NewOwnerLock creates an owner-side block for the exact range
func NewOwnerLock(courtID int64, date time.Time, rng types.TimeRange) CourtSlot {
	return CourtSlot{
		CourtID:       courtID,
		Date:          date,
		StartTime:     rng.Start,
		EndTime:       rng.End,
		IsLocked:      true,
		LockedByOwner: true,
	}
}

// LockOutcome is the result of one owner lock request
type LockOutcome string

const (
	LockCreated LockOutcome = "created"
	LockSkipped LockOutcome = "skipped"
)
