package notifier

import "time"

// BookingConfirmed сообщение владельцу площадки о подтверждённом бронировании
type BookingConfirmed struct {
	BookingID     int64         `json:"bookingId"`
	OwnerID       int64         `json:"ownerId"`
	OwnerEmail    string        `json:"ownerEmail"`
	CustomerName  string        `json:"customerName"`
	CustomerPhone string        `json:"customerPhone"`
	VenueName     string        `json:"venueName"`
	FieldName     string        `json:"fieldName"`
	BookingDate   string        `json:"bookingDate"`
	TotalPrice    int64         `json:"totalPrice"`
	Courts        []CourtRanges `json:"courts"`
	ConfirmedAt   time.Time     `json:"confirmedAt"`
}

// CourtRanges диапазоны одного корта в формате "HH:MM - HH:MM"
type CourtRanges struct {
	CourtID   int64    `json:"courtId"`
	CourtName string   `json:"courtName"`
	Ranges    []string `json:"ranges"`
}
