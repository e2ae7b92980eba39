package bookings

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
)

// GetBooking получает бронирование по ID
// Видно создателю бронирования и владельцу площадки
func (s *Service) GetBooking(ctx context.Context, caller domain.Caller, bookingID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetBooking: fetching booking id=%d for user=%d", bookingID, caller.ID)

	b, err := s.getBooking(ctx, "GetBooking", bookingID)
	if err != nil {
		return nil, err
	}

	if !b.IsCreatedBy(caller.ID) {
		field, err := s.getField(ctx, "GetBooking", b.FieldID)
		if err != nil {
			return nil, err
		}
		if !field.Venue.IsOwnedBy(caller.ID) {
			s.logger.Warn("GetBooking: access denied for user=%d to booking id=%d", caller.ID, bookingID)
			return nil, fmt.Errorf("%w: booking %d", domain.ErrUnauthorized, bookingID)
		}
	}

	return models.FromDomainBooking(b, s.timeProvider.Now()), nil
}

// GetPaymentQRCode повторно выдаёт реквизиты оплаты ожидающего бронирования
func (s *Service) GetPaymentQRCode(ctx context.Context, caller domain.Caller, bookingID int64) (*models.PaymentQRResponse, error) {
	s.logger.Info("GetPaymentQRCode: booking id=%d for user=%d", bookingID, caller.ID)

	b, err := s.getBooking(ctx, "GetPaymentQRCode", bookingID)
	if err != nil {
		return nil, err
	}

	if !b.IsCreatedBy(caller.ID) {
		s.logger.Warn("GetPaymentQRCode: user=%d is not the creator of booking id=%d", caller.ID, bookingID)
		return nil, fmt.Errorf("%w: booking %d", domain.ErrUnauthorized, bookingID)
	}

	if b.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: booking %d is %s", domain.ErrAlreadyProcessed, bookingID, b.Status)
	}

	field, err := s.getField(ctx, "GetPaymentQRCode", b.FieldID)
	if err != nil {
		return nil, err
	}

	return models.FromPaymentInstructions(b.ID, domain.NewPaymentInstructions(&field.Venue, b.ID, b.TotalPrice)), nil
}

// ListUserBookings бронирования пользователя, новые сначала, с суммой завершённых
func (s *Service) ListUserBookings(ctx context.Context, caller domain.Caller, page int) (*models.BookingListResponse, error) {
	filter, page := s.pageFilter(page)
	s.logger.Info("ListUserBookings: user=%d, page=%d", caller.ID, page)

	var (
		bookings []*domain.Booking
		total    int64
	)

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		bookings, err = s.bookingRepo.ListByUser(txCtx, caller.ID, filter)
		if err != nil {
			return err
		}
		total, err = s.bookingRepo.SumCompletedByUser(txCtx, caller.ID)
		return err
	})
	if err != nil {
		s.logger.Error("ListUserBookings: repository error for user=%d: %v", caller.ID, err)
		return nil, fmt.Errorf("%w: ListUserBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListUserBookings: fetched %d bookings for user=%d", len(bookings), caller.ID)
	return &models.BookingListResponse{
		Bookings:       models.FromDomainBookingList(bookings, s.timeProvider.Now()),
		Page:           page,
		PageSize:       s.pageSize,
		TotalCompleted: &total,
	}, nil
}

// ListOwnerBookings бронирования на полях площадок владельца
func (s *Service) ListOwnerBookings(ctx context.Context, caller domain.Caller, page int) (*models.BookingListResponse, error) {
	filter, page := s.pageFilter(page)
	s.logger.Info("ListOwnerBookings: owner=%d, page=%d", caller.ID, page)

	bookings, err := s.bookingRepo.ListByOwner(ctx, caller.ID, filter)
	if err != nil {
		s.logger.Error("ListOwnerBookings: repository error for owner=%d: %v", caller.ID, err)
		return nil, fmt.Errorf("%w: ListOwnerBookings - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListOwnerBookings: fetched %d bookings for owner=%d", len(bookings), caller.ID)
	return &models.BookingListResponse{
		Bookings: models.FromDomainBookingList(bookings, s.timeProvider.Now()),
		Page:     page,
		PageSize: s.pageSize,
	}, nil
}

// pageFilter страницы нумеруются с 1
func (s *Service) pageFilter(page int) (domain.BookingListFilter, int) {
	if page < 1 {
		page = 1
	}
	return domain.BookingListFilter{
		Limit:  s.pageSize,
		Offset: (page - 1) * s.pageSize,
	}, page
}
