package create_booking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	directoryRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/directory"
	"github.com/m04kA/SMC-CourtBooking/pkg/orderedmap"
)

// UseCase use case для создания бронирования кортов
type UseCase struct {
	directoryRepo DirectoryRepository
	slotStore     SlotStore
	bookingRepo   BookingRepository
	paymentRepo   PaymentRepository
	pricing       PriceResolver
	txManager     TransactionManager
	metrics       Metrics
	location      *time.Location
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
// location - часовой пояс площадок, в нём дата и время слота переводятся в момент времени
func NewUseCase(
	directoryRepo DirectoryRepository,
	slotStore SlotStore,
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	pricing PriceResolver,
	txManager TransactionManager,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		directoryRepo: directoryRepo,
		slotStore:     slotStore,
		bookingRepo:   bookingRepo,
		paymentRepo:   paymentRepo,
		pricing:       pricing,
		txManager:     txManager,
		metrics:       metrics,
		location:      location,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
// Все проверки и записи идут в одной сериализуемой транзакции под блокировками корт-день
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, field=%d, date=%s, ranges=%d",
		req.Caller.ID, req.FieldID, req.Date.Format(domain.DateFormat), len(req.Courts))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем поле вместе с площадкой
	field, err := uc.directoryRepo.GetFieldWithVenue(ctx, req.FieldID)
	if err != nil {
		if errors.Is(err, directoryRepo.ErrFieldNotFound) {
			uc.logger.Warn("CreateBooking: field id=%d not found", req.FieldID)
			return nil, fmt.Errorf("%w: field %d", domain.ErrNotFound, req.FieldID)
		}
		uc.logger.Error("CreateBooking: failed to get field id=%d: %v", req.FieldID, err)
		return nil, fmt.Errorf("%w: failed to get field: %w", ErrInternal, err)
	}

	// 3. Проверяем, что все корты принадлежат полю
	courtIDs, err := uc.checkCourts(ctx, field, req.Courts)
	if err != nil {
		return nil, err
	}

	// 4. Получаем текущее время
	now := uc.timeProvider.Now()

	var (
		booking *domain.Booking
		courts  []domain.BookingCourt
	)

	// 5. Выполняем проверки и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Блокируем корт-день в порядке возрастания ID корта
		for _, courtID := range courtIDs {
			if err := uc.slotStore.LockCourtDay(txCtx, courtID, req.Date); err != nil {
				uc.logger.Error("CreateBooking: failed to lock court=%d: %v", courtID, err)
				return fmt.Errorf("%w: failed to lock court day: %w", ErrInternal, err)
			}
		}

		// 5.2. Проверяем и оцениваем диапазоны в порядке запроса
		plans, total, err := uc.planRanges(txCtx, field, req, now)
		if err != nil {
			return err
		}

		// 5.3. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			FieldID:       field.Field.ID,
			UserID:        req.Caller.ID,
			TotalPrice:    total,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			BookingDate:   req.Date,
			Status:        domain.StatusPending,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		// 5.4. Сохраняем корты и нарезанные слоты
		courts = make([]domain.BookingCourt, 0, len(plans))
		for _, p := range plans {
			bc, err := uc.persistRange(txCtx, created.ID, req, p)
			if err != nil {
				return err
			}
			courts = append(courts, *bc)
		}

		// 5.5. Создаём платёж в статусе pending
		_, err = uc.paymentRepo.Create(txCtx, &domain.Payment{
			BookingID: created.ID,
			Reference: uuid.NewString(),
			Amount:    total,
			Message:   domain.PaymentMessage(created.ID),
			Status:    domain.PaymentPending,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create payment for booking=%d: %v", created.ID, err)
			return fmt.Errorf("%w: failed to create payment: %w", ErrInternal, err)
		}

		booking = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	booking.Courts = courts
	if uc.metrics != nil {
		uc.metrics.IncBookingCreated()
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, total=%d", booking.ID, booking.TotalPrice)

	return &Response{
		BookingID:  booking.ID,
		FieldID:    booking.FieldID,
		Date:       booking.BookingDate,
		Status:     booking.Status,
		TotalPrice: booking.TotalPrice,
		Courts:     booking.Courts,
		Payment:    domain.NewPaymentInstructions(&field.Venue, booking.ID, booking.TotalPrice),
		CreatedAt:  booking.CreatedAt,
	}, nil
}

// checkCourts проверяет принадлежность кортов полю и возвращает их ID по возрастанию
func (uc *UseCase) checkCourts(ctx context.Context, field *domain.FieldWithVenue, requests []CourtRequest) ([]int64, error) {
	seen := make(map[int64]struct{}, len(requests))
	ids := make([]int64, 0, len(requests))

	for _, cr := range requests {
		if _, ok := seen[cr.CourtID]; ok {
			continue
		}
		seen[cr.CourtID] = struct{}{}

		court, err := uc.directoryRepo.GetCourt(ctx, cr.CourtID)
		if err != nil {
			if errors.Is(err, directoryRepo.ErrCourtNotFound) {
				uc.logger.Warn("CreateBooking: court id=%d not found", cr.CourtID)
				return nil, fmt.Errorf("%w: court %d", domain.ErrNotFound, cr.CourtID)
			}
			uc.logger.Error("CreateBooking: failed to get court id=%d: %v", cr.CourtID, err)
			return nil, fmt.Errorf("%w: failed to get court: %w", ErrInternal, err)
		}

		if court.FieldID != field.Field.ID {
			uc.logger.Warn("CreateBooking: court id=%d belongs to field=%d, not %d", court.ID, court.FieldID, field.Field.ID)
			return nil, fmt.Errorf("%w: court %d on field %d", domain.ErrNotFound, cr.CourtID, field.Field.ID)
		}

		ids = append(ids, cr.CourtID)
	}

	slices.Sort(ids)
	return ids, nil
}

// planRanges проверяет каждый диапазон и считает его цену
func (uc *UseCase) planRanges(ctx context.Context, field *domain.FieldWithVenue, req *Request, now time.Time) ([]plannedRange, int64, error) {
	plans := make([]plannedRange, 0, len(req.Courts))
	byCourt := orderedmap.NewMultiMap[int64, plannedRange]()
	var total int64

	for _, cr := range req.Courts {
		// Окончание слота должно быть не раньше чем через 30 минут
		if err := validateNotice(req.Date, cr.Range, now, uc.location); err != nil {
			uc.logger.Warn("CreateBooking: court=%d range=%s: %v", cr.CourtID, cr.Range, err)
			return nil, 0, err
		}

		if cr.Range.Duration() <= 0 {
			uc.logger.Warn("CreateBooking: court=%d range=%s is empty", cr.CourtID, cr.Range)
			return nil, 0, fmt.Errorf("%w: %s", domain.ErrInvalidRange, cr.Range)
		}

		// Пересечение с предыдущими диапазонами этого же запроса
		for _, prev := range byCourt.Get(cr.CourtID) {
			if prev.rng.Overlaps(cr.Range) {
				uc.logger.Warn("CreateBooking: court=%d range=%s overlaps %s in the same request", cr.CourtID, cr.Range, prev.rng)
				return nil, 0, fmt.Errorf("%w: court %d %s", domain.ErrSlotUnavailable, cr.CourtID, cr.Range)
			}
		}

		taken, err := uc.slotStore.CheckOverlap(ctx, cr.CourtID, req.Date, cr.Range)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check overlap court=%d: %v", cr.CourtID, err)
			return nil, 0, fmt.Errorf("%w: failed to check overlap: %w", ErrInternal, err)
		}
		if taken {
			uc.logger.Warn("CreateBooking: court=%d range=%s is already taken", cr.CourtID, cr.Range)
			return nil, 0, fmt.Errorf("%w: court %d %s", domain.ErrSlotUnavailable, cr.CourtID, cr.Range)
		}

		quote, err := uc.pricing.Resolve(ctx, &field.Field, domain.PriceQuery{
			CourtID: cr.CourtID,
			FieldID: field.Field.ID,
			Date:    req.Date,
			Range:   cr.Range,
		})
		if err != nil {
			return nil, 0, err
		}

		p := plannedRange{
			courtID: cr.CourtID,
			rng:     cr.Range,
			quote:   quote,
			price:   quote.PriceFor(cr.Range.Duration()),
		}
		plans = append(plans, p)
		byCourt.Add(cr.CourtID, p)
		total += p.price
	}

	return plans, total, nil
}

// persistRange сохраняет диапазон корта и его слоты размером min_rental
func (uc *UseCase) persistRange(ctx context.Context, bookingID int64, req *Request, p plannedRange) (*domain.BookingCourt, error) {
	bc, err := uc.bookingRepo.CreateCourt(ctx, &domain.BookingCourt{
		BookingID: bookingID,
		CourtID:   p.courtID,
		StartTime: p.rng.Start,
		EndTime:   p.rng.End,
		Price:     p.price,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create booking court=%d: %v", p.courtID, err)
		return nil, fmt.Errorf("%w: failed to create booking court: %w", ErrInternal, err)
	}

	slots, err := domain.NewBookingSlots(p.courtID, bc.ID, req.Date, p.rng, p.quote.MinRental)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to split range %s by %d: %v", p.rng, p.quote.MinRental, err)
		return nil, fmt.Errorf("%w: failed to split range: %w", ErrInternal, err)
	}

	for i := range slots {
		if _, err := uc.slotStore.Create(ctx, &slots[i]); err != nil {
			uc.logger.Error("CreateBooking: failed to create slot court=%d %s: %v", p.courtID, slots[i].Range(), err)
			return nil, fmt.Errorf("%w: failed to create slot: %w", ErrInternal, err)
		}
	}

	return bc, nil
}
