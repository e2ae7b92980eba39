package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	directoryRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/directory"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// Service запросы занятости кортов
type Service struct {
	slotStore SlotStore
	courtRepo CourtRepository
	logger    Logger
}

// NewService создает новый экземпляр сервиса
func NewService(slotStore SlotStore, courtRepo CourtRepository, logger Logger) *Service {
	return &Service{
		slotStore: slotStore,
		courtRepo: courtRepo,
		logger:    logger,
	}
}

// IsSlotLocked диапазон занят, если с ним пересекается любой слот корта на дату
func (s *Service) IsSlotLocked(ctx context.Context, courtID int64, date time.Time, rng types.TimeRange) (bool, error) {
	if courtID <= 0 {
		return false, fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return false, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := rng.Start.Validate(); err != nil {
		return false, fmt.Errorf("%w: invalid start: %v", ErrInvalidInput, err)
	}
	if err := rng.End.Validate(); err != nil {
		return false, fmt.Errorf("%w: invalid end: %v", ErrInvalidInput, err)
	}
	if rng.Duration() <= 0 {
		return false, fmt.Errorf("%w: %s", domain.ErrInvalidRange, rng)
	}

	if _, err := s.courtRepo.GetCourt(ctx, courtID); err != nil {
		if errors.Is(err, directoryRepo.ErrCourtNotFound) {
			return false, fmt.Errorf("%w: court %d", domain.ErrNotFound, courtID)
		}
		s.logger.Error("IsSlotLocked: failed to get court id=%d: %v", courtID, err)
		return false, fmt.Errorf("%w: failed to get court: %w", ErrInternal, err)
	}

	locked, err := s.slotStore.CheckOverlap(ctx, courtID, date, rng)
	if err != nil {
		s.logger.Error("IsSlotLocked: court=%d date=%s: %v", courtID, date.Format(domain.DateFormat), err)
		return false, fmt.Errorf("%w: failed to check overlap: %w", ErrInternal, err)
	}
	return locked, nil
}
