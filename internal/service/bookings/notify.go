package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/integrations/notifier"
)

const notifyTimeout = 10 * time.Second

// notifyOwner отправляет уведомление владельцу в фоне после коммита
// Ошибки только логируются и считаются в метриках
func (s *Service) notifyOwner(booking *domain.Booking) {
	if s.notifier == nil || s.userClient == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.sendConfirmation(ctx, booking); err != nil {
			s.metrics.IncNotification("failed")
			s.logger.Error("notifyOwner: booking id=%d: %v", booking.ID, err)
			return
		}

		s.metrics.IncNotification("sent")
		s.logger.Info("notifyOwner: booking id=%d owner notified", booking.ID)
	}()
}

func (s *Service) sendConfirmation(ctx context.Context, booking *domain.Booking) error {
	field, err := s.directoryRepo.GetFieldWithVenue(ctx, booking.FieldID)
	if err != nil {
		return fmt.Errorf("get field %d: %w", booking.FieldID, err)
	}

	owner, err := s.userClient.GetUserWithGracefulDegradation(ctx, field.OwnerID())
	if err != nil {
		return fmt.Errorf("get owner %d: %w", field.OwnerID(), err)
	}

	msg := buildConfirmation(booking, field, owner.Email, s.timeProvider.Now())
	return s.notifier.PublishBookingConfirmed(ctx, msg)
}

// buildConfirmation корты группируются в порядке первого появления
func buildConfirmation(b *domain.Booking, field *domain.FieldWithVenue, ownerEmail string, now time.Time) *notifier.BookingConfirmed {
	courts := make([]notifier.CourtRanges, 0)
	b.CourtsByCourt().Each(func(courtID int64, ranges []domain.BookingCourt) {
		cr := notifier.CourtRanges{CourtID: courtID, CourtName: ranges[0].CourtName}
		for _, r := range ranges {
			cr.Ranges = append(cr.Ranges, r.Range().String())
		}
		courts = append(courts, cr)
	})

	return &notifier.BookingConfirmed{
		BookingID:     b.ID,
		OwnerID:       field.OwnerID(),
		OwnerEmail:    ownerEmail,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		VenueName:     field.Venue.Name,
		FieldName:     field.Field.Name,
		BookingDate:   b.BookingDate.Format(domain.DateFormat),
		TotalPrice:    b.TotalPrice,
		Courts:        courts,
		ConfirmedAt:   now,
	}
}
