package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	pricingRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/pricing"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// Service определяет цену и шаг аренды для диапазона на корте
// Порядок источников: специальное время корта, правило поля на день недели, цена поля по умолчанию
type Service struct {
	repo        PricingRepository
	gapBoundary domain.GapBoundary
	logger      Logger
}

// NewService создает новый экземпляр сервиса цен
// gapBoundary определяет границы проверки кратности для правил поля (по умолчанию границы правила)
func NewService(repo PricingRepository, gapBoundary domain.GapBoundary, logger Logger) *Service {
	if gapBoundary == "" {
		gapBoundary = domain.GapBoundaryRule
	}
	return &Service{
		repo:        repo,
		gapBoundary: gapBoundary,
		logger:      logger,
	}
}

// Resolve возвращает цену за шаг аренды и границы, от которых считается кратность
// После выбора источника проверяет, что длительность и отступы от границ кратны min_rental
func (s *Service) Resolve(ctx context.Context, field *domain.Field, q domain.PriceQuery) (*domain.PriceQuote, error) {
	if q.Range.Duration() <= 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRange, q.Range)
	}

	quote, err := s.quote(ctx, field, q)
	if err != nil {
		return nil, err
	}

	if err := checkRentalConditions(q.Range, quote); err != nil {
		s.logger.Warn("Resolve: court=%d range=%s tier=%s rejected: %v", q.CourtID, q.Range, quote.Tier, err)
		return nil, err
	}

	return quote, nil
}

func (s *Service) quote(ctx context.Context, field *domain.Field, q domain.PriceQuery) (*domain.PriceQuote, error) {
	// 1. Специальное время корта на дату
	special, err := s.repo.GetSpecialTime(ctx, q.CourtID, q.Date, q.Range.Start)
	switch {
	case err == nil:
		if !special.EndTime.Equal(q.Range.End) {
			return nil, fmt.Errorf("%w: requested %s, special time %s", domain.ErrRangeMismatch, q.Range, special.Range())
		}
		return &domain.PriceQuote{
			Tier:      domain.TierSpecialTime,
			Price:     special.Price,
			MinRental: special.MinRental,
			Boundary:  special.Range(),
		}, nil
	case !errors.Is(err, pricingRepo.ErrSpecialTimeNotFound):
		s.logger.Error("Resolve: failed to get special time court=%d: %v", q.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get special time: %w", ErrInternal, err)
	}

	// 2. Правило поля, целиком покрывающее диапазон
	rule, err := s.repo.FindCoveringRule(ctx, field.ID, q.DayOfWeek(), q.Range)
	switch {
	case err == nil:
		boundary := rule.Range()
		if s.gapBoundary == domain.GapBoundaryField {
			hours, err := s.openingHours(ctx, field.ID, q)
			if err != nil {
				return nil, err
			}
			boundary = hours.Range()
		}
		return &domain.PriceQuote{
			Tier:      domain.TierFieldRule,
			Price:     rule.Price,
			MinRental: rule.MinRental,
			Boundary:  boundary,
		}, nil
	case !errors.Is(err, pricingRepo.ErrRuleNotFound):
		s.logger.Error("Resolve: failed to find price rule field=%d: %v", field.ID, err)
		return nil, fmt.Errorf("%w: failed to find price rule: %w", ErrInternal, err)
	}

	// 3. Цена поля по умолчанию в часы работы
	hours, err := s.openingHours(ctx, field.ID, q)
	if err != nil {
		return nil, err
	}
	return &domain.PriceQuote{
		Tier:      domain.TierFieldDefault,
		Price:     field.DefaultPrice,
		MinRental: domain.DefaultMinRentalMinutes,
		Boundary:  hours.Range(),
	}, nil
}

func (s *Service) openingHours(ctx context.Context, fieldID int64, q domain.PriceQuery) (*domain.OpeningHours, error) {
	hours, err := s.repo.GetOpeningHours(ctx, fieldID, q.DayOfWeek())
	if errors.Is(err, pricingRepo.ErrOpeningHoursNotFound) {
		s.logger.Warn("Resolve: no opening hours field=%d day=%s", fieldID, q.DayOfWeek())
		return nil, fmt.Errorf("%w: no opening hours for field %d on %s", domain.ErrConfigurationMissing, fieldID, q.DayOfWeek())
	}
	if err != nil {
		s.logger.Error("Resolve: failed to get opening hours field=%d: %v", fieldID, err)
		return nil, fmt.Errorf("%w: failed to get opening hours: %w", ErrInternal, err)
	}
	return hours, nil
}

// checkRentalConditions диапазон внутри границ, длительность и отступы кратны min_rental
func checkRentalConditions(rng types.TimeRange, quote *domain.PriceQuote) error {
	if quote.MinRental <= 0 {
		return fmt.Errorf("%w: min rental must be positive", domain.ErrConfigurationMissing)
	}

	if !quote.Boundary.Covers(rng) {
		return fmt.Errorf("%w: %s is outside %s", domain.ErrInvalidRange, rng, quote.Boundary)
	}

	if !types.DivisibleBy(rng.Duration(), quote.MinRental) {
		return fmt.Errorf("%w: duration %d is not a multiple of %d", domain.ErrInvalidGranularity, rng.Duration(), quote.MinRental)
	}

	toOpen, toClose := rng.Gaps(quote.Boundary)
	if !types.DivisibleBy(toOpen, quote.MinRental) || !types.DivisibleBy(toClose, quote.MinRental) {
		return fmt.Errorf("%w: gaps %d/%d to %s are not multiples of %d",
			domain.ErrInvalidGranularity, toOpen, toClose, quote.Boundary, quote.MinRental)
	}

	return nil
}
