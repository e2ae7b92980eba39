package domain

import (
	"fmt"
	"net/url"
	"time"
)

// PaymentStatus represents the status of a payment record
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment is the ledger record of a booking payment
type Payment struct {
	ID        int64
	BookingID int64
	Reference string
	Amount    int64
	Message   string
	Status    PaymentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentInstructions is what the customer needs to pay by bank transfer
type PaymentInstructions struct {
	BankName    string
	BankAccount string
	BankHolder  string
	Amount      int64
	Message     string
	QRCodeURL   string
}

// PaymentMessage returns the transfer reference for a booking
func PaymentMessage(bookingID int64) string {
	return fmt.Sprintf("%s %d", PaymentMessagePrefix, bookingID)
}

// NewPaymentInstructions builds bank details and the VietQR image URL
func NewPaymentInstructions(venue *Venue, bookingID, amount int64) *PaymentInstructions {
	message := PaymentMessage(bookingID)

	qrURL := fmt.Sprintf("%s/%s-%s-%s.jpg?amount=%d&addInfo=%s",
		VietQRBaseURL,
		url.PathEscape(venue.BankName),
		url.PathEscape(venue.BankAccount),
		VietQRTemplate,
		amount,
		url.QueryEscape(message),
	)

	return &PaymentInstructions{
		BankName:    venue.BankName,
		BankAccount: venue.BankAccount,
		BankHolder:  venue.BankHolder,
		Amount:      amount,
		Message:     message,
		QRCodeURL:   qrURL,
	}
}
