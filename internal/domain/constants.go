package domain

import "time"

// Default configuration values
const (
	DefaultMinRentalMinutes = 30
	DefaultPageSize         = 7
	DefaultTimezone         = "Asia/Ho_Chi_Minh"
)

// Business rules
const (
	// BookingNoticePeriod слот должен заканчиваться не раньше now + BookingNoticePeriod
	BookingNoticePeriod = 30 * time.Minute

	// PaymentWindow после этого срока неоплаченное бронирование отменяется при подтверждении
	PaymentWindow = 30 * time.Minute

	// DisplayFreshPeriod в течение этого срока pending/confirmed показываются как ожидающие
	DisplayFreshPeriod = 15 * time.Minute

	MaxCustomerNameLength = 255
	TopVenuesLimit        = 5
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Payment constants
const (
	PaymentMessagePrefix = "Thanh Toan Don"
	VietQRBaseURL        = "https://img.vietqr.io/image"
	VietQRTemplate       = "compact2"
)
