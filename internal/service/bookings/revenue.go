package bookings

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-CourtBooking/pkg/orderedmap"
)

// RevenueStats выручка владельца по завершённым бронированиям за год или месяц
func (s *Service) RevenueStats(ctx context.Context, caller domain.Caller, year int, month *int) (*models.RevenueStatsResponse, error) {
	s.logger.Info("RevenueStats: owner=%d, year=%d, month=%v", caller.ID, year, month)

	if year < 1 {
		return nil, fmt.Errorf("%w: year must be positive", ErrInvalidInput)
	}
	if month != nil && (*month < 1 || *month > 12) {
		return nil, fmt.Errorf("%w: month must be in 1..12", ErrInvalidInput)
	}

	key := revenueCacheKey(caller.ID, year, month)

	if s.cache != nil {
		var cached models.RevenueStatsResponse
		found, err := s.cache.GetJSON(ctx, key, &cached)
		switch {
		case err != nil:
			s.metrics.IncCacheRequest("error")
			s.logger.Warn("RevenueStats: cache read failed key=%s: %v", key, err)
		case found:
			s.metrics.IncCacheRequest("hit")
			return &cached, nil
		default:
			s.metrics.IncCacheRequest("miss")
		}
	}

	rows, err := s.bookingRepo.ListRevenueRows(ctx, domain.RevenueFilter{
		OwnerID: caller.ID,
		Year:    year,
		Month:   month,
	})
	if err != nil {
		s.logger.Error("RevenueStats: repository error for owner=%d: %v", caller.ID, err)
		return nil, fmt.Errorf("%w: RevenueStats - repository error: %w", ErrInternal, err)
	}

	stats := aggregateRevenue(rows)
	stats.OwnerID = caller.ID
	stats.Year = year
	stats.Month = month

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, stats); err != nil {
			s.logger.Warn("RevenueStats: cache write failed key=%s: %v", key, err)
		}
	}

	return stats, nil
}

// invalidateRevenue сбрасывает кэш статистики владельца
func (s *Service) invalidateRevenue(ctx context.Context, ownerID int64) {
	if s.cache == nil {
		return
	}
	n, err := s.cache.DeletePrefix(ctx, revenueCachePrefix(ownerID))
	if err != nil {
		s.logger.Warn("invalidateRevenue: owner=%d: %v", ownerID, err)
		return
	}
	s.logger.Info("invalidateRevenue: owner=%d, %d keys removed", ownerID, n)
}

func revenueCachePrefix(ownerID int64) string {
	return fmt.Sprintf("revenue:%d:", ownerID)
}

func revenueCacheKey(ownerID int64, year int, month *int) string {
	if month == nil {
		return fmt.Sprintf("%s%d:all", revenueCachePrefix(ownerID), year)
	}
	return fmt.Sprintf("%s%d:%02d", revenueCachePrefix(ownerID), year, *month)
}

// aggregateRevenue суммирует цены кортов по кортам, полям и площадкам
func aggregateRevenue(rows []domain.RevenueRow) *models.RevenueStatsResponse {
	stats := &models.RevenueStatsResponse{
		Venues:    make([]models.VenueRevenue, 0),
		TopVenues: make([]models.VenueSummary, 0),
	}

	byVenue := orderedmap.GroupBy(rows, func(r domain.RevenueRow) int64 { return r.VenueID })
	byVenue.Each(func(venueID int64, venueRows []domain.RevenueRow) {
		venue := models.VenueRevenue{VenueID: venueID, VenueName: venueRows[0].VenueName}

		byField := orderedmap.GroupBy(venueRows, func(r domain.RevenueRow) int64 { return r.FieldID })
		byField.Each(func(fieldID int64, fieldRows []domain.RevenueRow) {
			field := models.FieldRevenue{FieldID: fieldID, FieldName: fieldRows[0].FieldName}

			byCourt := orderedmap.GroupBy(fieldRows, func(r domain.RevenueRow) int64 { return r.CourtID })
			byCourt.Each(func(courtID int64, courtRows []domain.RevenueRow) {
				court := models.CourtRevenue{CourtID: courtID, CourtName: courtRows[0].CourtName}
				for _, r := range courtRows {
					court.Revenue += r.Price
				}
				field.Revenue += court.Revenue
				field.Courts = append(field.Courts, court)
			})

			venue.Revenue += field.Revenue
			venue.Fields = append(venue.Fields, field)
		})

		stats.Total += venue.Revenue
		stats.Venues = append(stats.Venues, venue)
		stats.TopVenues = append(stats.TopVenues, models.VenueSummary{
			VenueID:   venue.VenueID,
			VenueName: venue.VenueName,
			Revenue:   venue.Revenue,
		})
	})

	slices.SortStableFunc(stats.TopVenues, func(a, b models.VenueSummary) int {
		return cmp.Compare(b.Revenue, a.Revenue)
	})
	if len(stats.TopVenues) > domain.TopVenuesLimit {
		stats.TopVenues = stats.TopVenues[:domain.TopVenuesLimit]
	}

	return stats
}
