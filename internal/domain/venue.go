package domain

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// VenueStatus represents the moderation status of a venue
type VenueStatus string

const (
	VenueActive VenueStatus = "active"
	VenueLocked VenueStatus = "locked"
	VenueBanned VenueStatus = "banned"
)

// Venue represents a sports venue owned by one user
type Venue struct {
	ID        int64
	OwnerID   int64
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	Status    VenueStatus

	// Payout details used for QR payments
	BankName    string
	BankAccount string
	BankHolder  string
}

// IsOwnedBy returns true if the user owns the venue
func (v *Venue) IsOwnedBy(userID int64) bool {
	return v.OwnerID == userID
}

// Field represents a playing field inside a venue
type Field struct {
	ID           int64
	VenueID      int64
	Name         string
	DefaultPrice int64
}

// FieldWithVenue is a field together with the venue it belongs to
type FieldWithVenue struct {
	Field Field
	Venue Venue
}

// OwnerID returns the owner of the field's venue
func (f *FieldWithVenue) OwnerID() int64 {
	return f.Venue.OwnerID
}

// OpeningHours are the opening and closing times of a field for one weekday
type OpeningHours struct {
	FieldID   int64
	DayOfWeek time.Weekday
	Open      types.TimeString
	Close     types.TimeString
}

// Range returns opening hours as a time range
func (h *OpeningHours) Range() types.TimeRange {
	return types.TimeRange{Start: h.Open, End: h.Close}
}

// Court is the unit of slot reservation
type Court struct {
	ID      int64
	FieldID int64
	Name    string
}
