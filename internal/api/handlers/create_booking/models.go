package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-CourtBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// CourtRangeRequest диапазон на корте
type CourtRangeRequest struct {
	CourtID int64  `json:"courtId" validate:"required,gt=0"`
	Start   string `json:"start" validate:"required"` // "18:00"
	End     string `json:"end" validate:"required"`   // "19:30"
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	FieldID       int64               `json:"fieldId" validate:"required,gt=0"`
	Date          string              `json:"date" validate:"required"` // "2025-10-15"
	CustomerName  string              `json:"customerName" validate:"required,max=255"`
	CustomerPhone string              `json:"customerPhone" validate:"required,max=32"`
	Courts        []CourtRangeRequest `json:"courts" validate:"required,min=1,dive"`
}

// ToUseCaseRequest парсит дату и диапазоны
func (r *CreateBookingRequest) ToUseCaseRequest(caller domain.Caller) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("date %q: %w", r.Date, err)
	}

	courts := make([]createBooking.CourtRequest, 0, len(r.Courts))
	for _, c := range r.Courts {
		rng, err := types.NewTimeRange(c.Start, c.End)
		if err != nil {
			return nil, fmt.Errorf("court %d: %w", c.CourtID, err)
		}
		courts = append(courts, createBooking.CourtRequest{CourtID: c.CourtID, Range: rng})
	}

	return &createBooking.Request{
		Caller:        caller,
		FieldID:       r.FieldID,
		Date:          date,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Courts:        courts,
	}, nil
}

// CourtResponse сохранённый диапазон с ценой
type CourtResponse struct {
	ID      int64  `json:"id"`
	CourtID int64  `json:"courtId"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Price   int64  `json:"price"`
}

// PaymentResponse реквизиты оплаты
type PaymentResponse struct {
	BankName    string `json:"bankName"`
	BankAccount string `json:"bankAccount"`
	BankHolder  string `json:"bankHolder"`
	Amount      int64  `json:"amount"`
	Message     string `json:"message"`
	QRCodeURL   string `json:"qrCodeUrl"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	BookingID  int64           `json:"bookingId"`
	FieldID    int64           `json:"fieldId"`
	Date       string          `json:"date"`
	Status     string          `json:"status"`
	TotalPrice int64           `json:"totalPrice"`
	Courts     []CourtResponse `json:"courts"`
	Payment    PaymentResponse `json:"payment"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	courts := make([]CourtResponse, 0, len(resp.Courts))
	for _, c := range resp.Courts {
		courts = append(courts, CourtResponse{
			ID:      c.ID,
			CourtID: c.CourtID,
			Start:   c.StartTime.String(),
			End:     c.EndTime.String(),
			Price:   c.Price,
		})
	}

	out := &CreateBookingResponse{
		BookingID:  resp.BookingID,
		FieldID:    resp.FieldID,
		Date:       resp.Date.Format(domain.DateFormat),
		Status:     string(resp.Status),
		TotalPrice: resp.TotalPrice,
		Courts:     courts,
		CreatedAt:  resp.CreatedAt,
	}
	if p := resp.Payment; p != nil {
		out.Payment = PaymentResponse{
			BankName:    p.BankName,
			BankAccount: p.BankAccount,
			BankHolder:  p.BankHolder,
			Amount:      p.Amount,
			Message:     p.Message,
			QRCodeURL:   p.QRCodeURL,
		}
	}
	return out
}
