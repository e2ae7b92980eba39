package bookings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/booking"
	directoryRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/directory"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
)

// Service сервис жизненного цикла бронирований
// pending -> confirmed -> completed, pending -> cancelled
type Service struct {
	bookingRepo   BookingRepository
	paymentRepo   PaymentRepository
	slotStore     SlotStore
	directoryRepo DirectoryRepository
	txManager     TransactionManager

	userClient UserServiceClient
	notifier   Notifier
	cache      RevenueCache
	metrics    Metrics

	pageSize     int
	timeProvider TimeProvider
	logger       Logger

	// Фоновые уведомления владельцам
	wg sync.WaitGroup
}

// Option дополнительная настройка сервиса
type Option func(*Service)

// WithNotifier включает уведомления владельцу после подтверждения
func WithNotifier(userClient UserServiceClient, n Notifier) Option {
	return func(s *Service) {
		s.userClient = userClient
		s.notifier = n
	}
}

// WithRevenueCache включает кэширование статистики выручки
func WithRevenueCache(c RevenueCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithMetrics включает счётчики переходов, уведомлений и кэша
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	slotStore SlotStore,
	directoryRepo DirectoryRepository,
	txManager TransactionManager,
	pageSize int,
	logger Logger,
	opts ...Option,
) *Service {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}

	s := &Service{
		bookingRepo:   bookingRepo,
		paymentRepo:   paymentRepo,
		slotStore:     slotStore,
		directoryRepo: directoryRepo,
		txManager:     txManager,
		metrics:       nopMetrics{},
		pageSize:      pageSize,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Wait дожидается отправки запущенных уведомлений
func (s *Service) Wait() {
	s.wg.Wait()
}

// Confirm подтверждает оплату бронирования его создателем
// Если окно оплаты истекло, бронирование отменяется и возвращается ErrPaymentOverdue
func (s *Service) Confirm(ctx context.Context, caller domain.Caller, bookingID int64) (*models.BookingResponse, error) {
	s.logger.Info("Confirm: booking id=%d by user=%d", bookingID, caller.ID)

	var (
		booking *domain.Booking
		overdue bool
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		overdue = false

		b, err := s.getBooking(txCtx, "Confirm", bookingID)
		if err != nil {
			return err
		}

		if !b.IsCreatedBy(caller.ID) {
			s.logger.Warn("Confirm: user=%d is not the creator of booking id=%d", caller.ID, bookingID)
			return fmt.Errorf("%w: booking %d", domain.ErrUnauthorized, bookingID)
		}

		// Просроченная оплата: отменяем в этой же транзакции
		if b.IsPaymentOverdue(s.timeProvider.Now()) {
			s.logger.Warn("Confirm: payment window of booking id=%d expired, cancelling", bookingID)
			if err := s.cancelInTx(txCtx, "Confirm", b); err != nil {
				return err
			}
			overdue = true
			return nil
		}

		switch b.Status {
		case domain.StatusConfirmed:
			return fmt.Errorf("%w: booking %d", domain.ErrAlreadyConfirmed, bookingID)
		case domain.StatusCompleted:
			return fmt.Errorf("%w: booking %d", domain.ErrAlreadyCompleted, bookingID)
		case domain.StatusCancelled:
			return fmt.Errorf("%w: booking %d is cancelled", domain.ErrInvalidTransition, bookingID)
		}

		if err := s.updateStatus(txCtx, "Confirm", b, domain.StatusConfirmed); err != nil {
			return err
		}

		booking = b
		return nil
	})

	if err != nil {
		return nil, err
	}

	if overdue {
		s.metrics.IncBookingTransition(string(domain.StatusCancelled))
		return nil, fmt.Errorf("%w: booking %d", domain.ErrPaymentOverdue, bookingID)
	}

	s.metrics.IncBookingTransition(string(domain.StatusConfirmed))
	s.logger.Info("Confirm: booking id=%d confirmed", bookingID)

	// Уведомление не влияет на результат подтверждения
	s.notifyOwner(booking)

	return models.FromDomainBooking(booking, s.timeProvider.Now()), nil
}

// Complete завершает подтверждённое бронирование, доступно владельцу площадки
func (s *Service) Complete(ctx context.Context, caller domain.Caller, bookingID int64) (*models.BookingResponse, error) {
	s.logger.Info("Complete: booking id=%d by user=%d", bookingID, caller.ID)

	var (
		booking *domain.Booking
		ownerID int64
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := s.getBooking(txCtx, "Complete", bookingID)
		if err != nil {
			return err
		}

		field, err := s.getField(txCtx, "Complete", b.FieldID)
		if err != nil {
			return err
		}

		if !field.Venue.IsOwnedBy(caller.ID) {
			s.logger.Warn("Complete: user=%d is not the owner of booking id=%d", caller.ID, bookingID)
			return fmt.Errorf("%w: booking %d", domain.ErrUnauthorized, bookingID)
		}

		switch b.Status {
		case domain.StatusCompleted:
			return fmt.Errorf("%w: booking %d", domain.ErrAlreadyCompleted, bookingID)
		case domain.StatusConfirmed:
		default:
			return fmt.Errorf("%w: booking %d is %s", domain.ErrInvalidTransition, bookingID, b.Status)
		}

		if err := s.updateStatus(txCtx, "Complete", b, domain.StatusCompleted); err != nil {
			return err
		}

		if err := s.paymentRepo.UpdateStatusByBooking(txCtx, b.ID, domain.PaymentPaid); err != nil {
			s.logger.Error("Complete: failed to mark payment paid for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: failed to update payment: %w", ErrInternal, err)
		}

		booking = b
		ownerID = field.OwnerID()
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.metrics.IncBookingTransition(string(domain.StatusCompleted))
	s.invalidateRevenue(ctx, ownerID)

	s.logger.Info("Complete: booking id=%d completed", bookingID)
	return models.FromDomainBooking(booking, s.timeProvider.Now()), nil
}

// Cancel отменяет ожидающее оплаты бронирование
// Отменить может создатель бронирования или владелец площадки
func (s *Service) Cancel(ctx context.Context, caller domain.Caller, bookingID int64) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: booking id=%d by user=%d", bookingID, caller.ID)

	var booking *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := s.getBooking(txCtx, "Cancel", bookingID)
		if err != nil {
			return err
		}

		if !b.IsCreatedBy(caller.ID) {
			field, err := s.getField(txCtx, "Cancel", b.FieldID)
			if err != nil {
				return err
			}
			if !field.Venue.IsOwnedBy(caller.ID) {
				s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", caller.ID, bookingID)
				return fmt.Errorf("%w: booking %d", domain.ErrUnauthorized, bookingID)
			}
		}

		if !b.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, b.Status)
			return fmt.Errorf("%w: booking %d is %s", domain.ErrNotCancellable, bookingID, b.Status)
		}

		if err := s.cancelInTx(txCtx, "Cancel", b); err != nil {
			return err
		}

		booking = b
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.metrics.IncBookingTransition(string(domain.StatusCancelled))
	s.logger.Info("Cancel: booking id=%d cancelled", bookingID)
	return models.FromDomainBooking(booking, s.timeProvider.Now()), nil
}

// cancelInTx статус cancelled, платёж failed, слоты освобождаются
func (s *Service) cancelInTx(ctx context.Context, op string, b *domain.Booking) error {
	if err := s.updateStatus(ctx, op, b, domain.StatusCancelled); err != nil {
		return err
	}

	if err := s.paymentRepo.UpdateStatusByBooking(ctx, b.ID, domain.PaymentFailed); err != nil {
		s.logger.Error("%s: failed to mark payment failed for booking id=%d: %v", op, b.ID, err)
		return fmt.Errorf("%w: failed to update payment: %w", ErrInternal, err)
	}

	released, err := s.slotStore.DeleteByBooking(ctx, b.ID)
	if err != nil {
		s.logger.Error("%s: failed to release slots of booking id=%d: %v", op, b.ID, err)
		return fmt.Errorf("%w: failed to release slots: %w", ErrInternal, err)
	}

	s.logger.Info("%s: booking id=%d released %d slots", op, b.ID, released)
	return nil
}

func (s *Service) updateStatus(ctx context.Context, op string, b *domain.Booking, status domain.BookingStatus) error {
	if err := s.bookingRepo.UpdateStatus(ctx, b.ID, status); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return fmt.Errorf("%w: booking %d", domain.ErrNotFound, b.ID)
		}
		s.logger.Error("%s: failed to set status=%s for booking id=%d: %v", op, status, b.ID, err)
		return fmt.Errorf("%w: failed to update status: %w", ErrInternal, err)
	}
	b.Status = status
	return nil
}

func (s *Service) getBooking(ctx context.Context, op string, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, bookingID)
			return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, bookingID)
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
	return b, nil
}

func (s *Service) getField(ctx context.Context, op string, fieldID int64) (*domain.FieldWithVenue, error) {
	field, err := s.directoryRepo.GetFieldWithVenue(ctx, fieldID)
	if err != nil {
		if errors.Is(err, directoryRepo.ErrFieldNotFound) {
			s.logger.Warn("%s: field id=%d not found", op, fieldID)
			return nil, fmt.Errorf("%w: field %d", domain.ErrNotFound, fieldID)
		}
		s.logger.Error("%s: failed to get field id=%d: %v", op, fieldID, err)
		return nil, fmt.Errorf("%w: failed to get field: %w", ErrInternal, err)
	}
	return field, nil
}
