package domain

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/pkg/orderedmap"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Display statuses shown in booking lists
const (
	DisplayCancelled                 = "cancelled"
	DisplayCompleted                 = "completed"
	DisplayAwaitingPayment           = "awaiting payment"
	DisplayAwaitingOwnerConfirmation = "awaiting owner confirmation"
	DisplayExpired                   = "expired"
)

// Booking represents a customer reservation on one field
type Booking struct {
	ID            int64
	FieldID       int64
	UserID        int64
	TotalPrice    int64
	CustomerName  string
	CustomerPhone string
	BookingDate   time.Time
	Status        BookingStatus

	Courts []BookingCourt

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingCourt is one contiguous range on one court within a booking
type BookingCourt struct {
	ID        int64
	BookingID int64
	CourtID   int64
	CourtName string // filled by read queries
	StartTime types.TimeString
	EndTime   types.TimeString
	Price     int64
}

// Range returns the booked range
func (c *BookingCourt) Range() types.TimeRange {
	return types.TimeRange{Start: c.StartTime, End: c.EndTime}
}

// IsCreatedBy returns true if the user created the booking
func (b *Booking) IsCreatedBy(userID int64) bool {
	return b.UserID == userID
}

// Age returns how long ago the booking was created
func (b *Booking) Age(now time.Time) time.Duration {
	return now.Sub(b.CreatedAt)
}

// IsPaymentOverdue returns true if a pending booking was not paid within the payment window
func (b *Booking) IsPaymentOverdue(now time.Time) bool {
	return b.Status == StatusPending && b.Age(now) > PaymentWindow
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending
}

// SumCourts returns the sum of all court prices
func (b *Booking) SumCourts() int64 {
	var total int64
	for _, c := range b.Courts {
		total += c.Price
	}
	return total
}

// CourtsByCourt groups court ranges by court id, keeping first-seen order
func (b *Booking) CourtsByCourt() *orderedmap.MultiMap[int64, BookingCourt] {
	return orderedmap.GroupBy(b.Courts, func(c BookingCourt) int64 { return c.CourtID })
}

// DisplayStatus derives the status shown to users from the stored status and age
func DisplayStatus(status BookingStatus, createdAt, now time.Time) string {
	switch status {
	case StatusCancelled:
		return DisplayCancelled
	case StatusCompleted:
		return DisplayCompleted
	}

	if now.Sub(createdAt) < DisplayFreshPeriod {
		switch status {
		case StatusPending:
			return DisplayAwaitingPayment
		case StatusConfirmed:
			return DisplayAwaitingOwnerConfirmation
		}
	}
	return DisplayExpired
}

// Caller is the identity of the user performing an operation
type Caller struct {
	ID   int64
	Role string
}

// Roles
const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
	RoleAdmin    = "admin"
)

// BookingListFilter pagination for booking lists
type BookingListFilter struct {
	Limit  int
	Offset int
}

// RevenueFilter selects completed bookings for revenue stats
type RevenueFilter struct {
	OwnerID int64
	Year    int
	Month   *int // nil = whole year
}

// RevenueRow is one completed booking court with its venue and field
type RevenueRow struct {
	VenueID   int64
	VenueName string
	FieldID   int64
	FieldName string
	CourtID   int64
	CourtName string
	Price     int64
}
