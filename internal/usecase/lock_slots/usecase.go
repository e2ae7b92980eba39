package lock_slots

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	directoryRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/directory"
)

// UseCase use case для блокировки слотов владельцем площадки
type UseCase struct {
	directoryRepo DirectoryRepository
	slotStore     SlotStore
	txManager     TransactionManager
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	directoryRepo DirectoryRepository,
	slotStore SlotStore,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		directoryRepo: directoryRepo,
		slotStore:     slotStore,
		txManager:     txManager,
		logger:        logger,
	}
}

// Execute блокирует диапазоны целиком или не блокирует ничего
// Повторная блокировка того же диапазона пропускается
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("LockSlots: owner=%d, field=%d, date=%s, ranges=%d",
		req.Caller.ID, req.FieldID, req.Date.Format(domain.DateFormat), len(req.Locks))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("LockSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем, что поле принадлежит вызывающему
	field, err := uc.directoryRepo.GetFieldWithVenue(ctx, req.FieldID)
	if err != nil {
		if errors.Is(err, directoryRepo.ErrFieldNotFound) {
			uc.logger.Warn("LockSlots: field id=%d not found", req.FieldID)
			return nil, fmt.Errorf("%w: field %d", domain.ErrNotFound, req.FieldID)
		}
		uc.logger.Error("LockSlots: failed to get field id=%d: %v", req.FieldID, err)
		return nil, fmt.Errorf("%w: failed to get field: %w", ErrInternal, err)
	}

	if !field.Venue.IsOwnedBy(req.Caller.ID) {
		uc.logger.Warn("LockSlots: user=%d is not the owner of field=%d", req.Caller.ID, req.FieldID)
		return nil, fmt.Errorf("%w: field %d", domain.ErrUnauthorized, req.FieldID)
	}

	// 3. Проверяем корты
	courtIDs, err := uc.checkCourts(ctx, field.Field.ID, req.Locks)
	if err != nil {
		return nil, err
	}

	var results []LockResult

	// 4. Создаём блокировки в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		results = make([]LockResult, 0, len(req.Locks))

		for _, courtID := range courtIDs {
			if err := uc.slotStore.LockCourtDay(txCtx, courtID, req.Date); err != nil {
				uc.logger.Error("LockSlots: failed to lock court=%d: %v", courtID, err)
				return fmt.Errorf("%w: failed to lock court day: %w", ErrInternal, err)
			}
		}

		for _, l := range req.Locks {
			outcome, err := uc.lockOne(txCtx, req, l)
			if err != nil {
				return err
			}
			results = append(results, LockResult{CourtID: l.CourtID, Range: l.Range, Outcome: outcome})
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("LockSlots: field=%d, date=%s done, %d ranges", req.FieldID, req.Date.Format(domain.DateFormat), len(results))

	return &Response{Results: results}, nil
}

func (uc *UseCase) lockOne(ctx context.Context, req *Request, l LockRequest) (domain.LockOutcome, error) {
	if l.Range.Duration() <= 0 {
		uc.logger.Warn("LockSlots: court=%d range=%s is empty", l.CourtID, l.Range)
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidRange, l.Range)
	}

	exists, err := uc.slotStore.Exists(ctx, l.CourtID, l.Range, req.Date)
	if err != nil {
		uc.logger.Error("LockSlots: failed to check existing lock court=%d: %v", l.CourtID, err)
		return "", fmt.Errorf("%w: failed to check existing lock: %w", ErrInternal, err)
	}
	if exists {
		uc.logger.Info("LockSlots: court=%d range=%s already locked, skipped", l.CourtID, l.Range)
		return domain.LockSkipped, nil
	}

	taken, err := uc.slotStore.CheckOverlap(ctx, l.CourtID, req.Date, l.Range)
	if err != nil {
		uc.logger.Error("LockSlots: failed to check overlap court=%d: %v", l.CourtID, err)
		return "", fmt.Errorf("%w: failed to check overlap: %w", ErrInternal, err)
	}
	if taken {
		uc.logger.Warn("LockSlots: court=%d range=%s overlaps an existing slot", l.CourtID, l.Range)
		return "", fmt.Errorf("%w: court %d %s", domain.ErrSlotUnavailable, l.CourtID, l.Range)
	}

	lock := domain.NewOwnerLock(l.CourtID, req.Date, l.Range)
	if _, err := uc.slotStore.Create(ctx, &lock); err != nil {
		uc.logger.Error("LockSlots: failed to create lock court=%d: %v", l.CourtID, err)
		return "", fmt.Errorf("%w: failed to create lock: %w", ErrInternal, err)
	}
	return domain.LockCreated, nil
}

// checkCourts проверяет принадлежность кортов полю и возвращает их ID по возрастанию
func (uc *UseCase) checkCourts(ctx context.Context, fieldID int64, locks []LockRequest) ([]int64, error) {
	ids := make([]int64, 0, len(locks))
	for _, l := range locks {
		if slices.Contains(ids, l.CourtID) {
			continue
		}

		court, err := uc.directoryRepo.GetCourt(ctx, l.CourtID)
		if err != nil {
			if errors.Is(err, directoryRepo.ErrCourtNotFound) {
				uc.logger.Warn("LockSlots: court id=%d not found", l.CourtID)
				return nil, fmt.Errorf("%w: court %d", domain.ErrNotFound, l.CourtID)
			}
			uc.logger.Error("LockSlots: failed to get court id=%d: %v", l.CourtID, err)
			return nil, fmt.Errorf("%w: failed to get court: %w", ErrInternal, err)
		}
		if court.FieldID != fieldID {
			uc.logger.Warn("LockSlots: court id=%d is not on field=%d", l.CourtID, fieldID)
			return nil, fmt.Errorf("%w: court %d on field %d", domain.ErrNotFound, l.CourtID, fieldID)
		}

		ids = append(ids, l.CourtID)
	}

	slices.Sort(ids)
	return ids, nil
}
