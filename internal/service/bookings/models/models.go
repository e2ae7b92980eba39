package models

import (
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
)

// Response модели

// CourtResponse диапазон корта в бронировании
type CourtResponse struct {
	ID        int64  `json:"id"`
	CourtID   int64  `json:"courtId"`
	CourtName string `json:"courtName,omitempty"`
	StartTime string `json:"startTime"` // "18:00"
	EndTime   string `json:"endTime"`   // "19:30"
	Price     int64  `json:"price"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64           `json:"id"`
	FieldID       int64           `json:"fieldId"`
	UserID        int64           `json:"userId"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	BookingDate   string          `json:"bookingDate"` // "2025-10-15"
	Status        string          `json:"status"`
	DisplayStatus string          `json:"displayStatus"`
	TotalPrice    int64           `json:"totalPrice"`
	Courts        []CourtResponse `json:"courts"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// BookingListResponse страница бронирований
type BookingListResponse struct {
	Bookings       []BookingResponse `json:"bookings"`
	Page           int               `json:"page"`
	PageSize       int               `json:"pageSize"`
	TotalCompleted *int64            `json:"totalCompleted,omitempty"` // Только для списка пользователя
}

// PaymentQRResponse реквизиты и QR для оплаты бронирования
type PaymentQRResponse struct {
	BookingID   int64  `json:"bookingId"`
	BankName    string `json:"bankName"`
	BankAccount string `json:"bankAccount"`
	BankHolder  string `json:"bankHolder"`
	Amount      int64  `json:"amount"`
	Message     string `json:"message"`
	QRCodeURL   string `json:"qrCodeUrl"`
}

// CourtRevenue выручка корта
type CourtRevenue struct {
	CourtID   int64  `json:"courtId"`
	CourtName string `json:"courtName"`
	Revenue   int64  `json:"revenue"`
}

// FieldRevenue выручка поля с разбивкой по кортам
type FieldRevenue struct {
	FieldID   int64          `json:"fieldId"`
	FieldName string         `json:"fieldName"`
	Revenue   int64          `json:"revenue"`
	Courts    []CourtRevenue `json:"courts"`
}

// VenueRevenue выручка площадки с разбивкой по полям
type VenueRevenue struct {
	VenueID   int64          `json:"venueId"`
	VenueName string         `json:"venueName"`
	Revenue   int64          `json:"revenue"`
	Fields    []FieldRevenue `json:"fields"`
}

// VenueSummary строка рейтинга площадок
type VenueSummary struct {
	VenueID   int64  `json:"venueId"`
	VenueName string `json:"venueName"`
	Revenue   int64  `json:"revenue"`
}

// RevenueStatsResponse статистика выручки владельца
type RevenueStatsResponse struct {
	OwnerID   int64          `json:"ownerId"`
	Year      int            `json:"year"`
	Month     *int           `json:"month,omitempty"`
	Total     int64          `json:"total"`
	Venues    []VenueRevenue `json:"venues"`
	TopVenues []VenueSummary `json:"topVenues"`
}

// Конвертеры

// FromDomainBooking конвертирует domain.Booking в BookingResponse
// now нужен для вычисления отображаемого статуса
func FromDomainBooking(b *domain.Booking, now time.Time) *BookingResponse {
	courts := make([]CourtResponse, 0, len(b.Courts))
	for _, c := range b.Courts {
		courts = append(courts, CourtResponse{
			ID:        c.ID,
			CourtID:   c.CourtID,
			CourtName: c.CourtName,
			StartTime: c.StartTime.String(),
			EndTime:   c.EndTime.String(),
			Price:     c.Price,
		})
	}

	return &BookingResponse{
		ID:            b.ID,
		FieldID:       b.FieldID,
		UserID:        b.UserID,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		BookingDate:   b.BookingDate.Format(domain.DateFormat),
		Status:        string(b.Status),
		DisplayStatus: domain.DisplayStatus(b.Status, b.CreatedAt, now),
		TotalPrice:    b.TotalPrice,
		Courts:        courts,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список бронирований
func FromDomainBookingList(bookings []*domain.Booking, now time.Time) []BookingResponse {
	result := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, *FromDomainBooking(b, now))
	}
	return result
}

// FromPaymentInstructions конвертирует реквизиты оплаты
func FromPaymentInstructions(bookingID int64, p *domain.PaymentInstructions) *PaymentQRResponse {
	return &PaymentQRResponse{
		BookingID:   bookingID,
		BankName:    p.BankName,
		BankAccount: p.BankAccount,
		BankHolder:  p.BankHolder,
		Amount:      p.Amount,
		Message:     p.Message,
		QRCodeURL:   p.QRCodeURL,
	}
}
