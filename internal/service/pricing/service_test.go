package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	pricingRepo "github.com/m04kA/SMC-CourtBooking/internal/infra/storage/pricing"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakePricingRepo struct {
	special  map[types.TimeString]*domain.CourtSpecialTime
	rules    []*domain.FieldPriceRule
	hours    map[time.Weekday]*domain.OpeningHours
	hoursErr error
}

func (f *fakePricingRepo) GetSpecialTime(_ context.Context, _ int64, _ time.Time, start types.TimeString) (*domain.CourtSpecialTime, error) {
	if st, ok := f.special[start]; ok {
		return st, nil
	}
	return nil, pricingRepo.ErrSpecialTimeNotFound
}

func (f *fakePricingRepo) FindCoveringRule(_ context.Context, _ int64, day time.Weekday, rng types.TimeRange) (*domain.FieldPriceRule, error) {
	for _, r := range f.rules {
		if r.DayOfWeek == day && r.Range().Covers(rng) {
			return r, nil
		}
	}
	return nil, pricingRepo.ErrRuleNotFound
}

func (f *fakePricingRepo) GetOpeningHours(_ context.Context, _ int64, day time.Weekday) (*domain.OpeningHours, error) {
	if f.hoursErr != nil {
		return nil, f.hoursErr
	}
	if h, ok := f.hours[day]; ok {
		return h, nil
	}
	return nil, pricingRepo.ErrOpeningHoursNotFound
}

// 2025-06-02 is a Monday
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func query(start, end types.TimeString) domain.PriceQuery {
	return domain.PriceQuery{
		CourtID: 1,
		FieldID: 10,
		Date:    monday,
		Range:   types.TimeRange{Start: start, End: end},
	}
}

func newRepo() *fakePricingRepo {
	return &fakePricingRepo{
		special: map[types.TimeString]*domain.CourtSpecialTime{
			"09:00": {CourtID: 1, Date: monday, StartTime: "09:00", EndTime: "10:00", Price: 100, MinRental: 60},
		},
		rules: []*domain.FieldPriceRule{
			{FieldID: 10, DayOfWeek: time.Monday, StartTime: "17:00", EndTime: "22:00", Price: 80000, MinRental: 60},
		},
		hours: map[time.Weekday]*domain.OpeningHours{
			time.Monday: {FieldID: 10, DayOfWeek: time.Monday, Open: "06:00", Close: "22:30"},
		},
	}
}

func TestResolve_Tiers(t *testing.T) {
	field := &domain.Field{ID: 10, DefaultPrice: 50000}

	tests := []struct {
		name      string
		q         domain.PriceQuery
		wantTier  domain.PriceTier
		wantPrice int64
		wantMin   int
	}{
		{"special time exact", query("09:00", "10:00"), domain.TierSpecialTime, 100, 60},
		{"rule covers range", query("18:00", "20:00"), domain.TierFieldRule, 80000, 60},
		{"default price", query("06:30", "07:30"), domain.TierFieldDefault, 50000, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newRepo(), domain.GapBoundaryRule, nopLogger{})

			quote, err := svc.Resolve(context.Background(), field, tt.q)

			require.NoError(t, err)
			assert.Equal(t, tt.wantTier, quote.Tier)
			assert.Equal(t, tt.wantPrice, quote.Price)
			assert.Equal(t, tt.wantMin, quote.MinRental)
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	field := &domain.Field{ID: 10, DefaultPrice: 50000}

	tests := []struct {
		name    string
		repo    func() *fakePricingRepo
		q       domain.PriceQuery
		wantErr error
	}{
		{
			name:    "special time partially requested",
			repo:    newRepo,
			q:       query("09:00", "09:30"),
			wantErr: domain.ErrRangeMismatch,
		},
		{
			name:    "default tier duration not multiple of 30",
			repo:    newRepo,
			q:       query("07:00", "07:50"),
			wantErr: domain.ErrInvalidGranularity,
		},
		{
			name:    "default tier gap to open not multiple of 30",
			repo:    newRepo,
			q:       query("06:15", "07:15"),
			wantErr: domain.ErrInvalidGranularity,
		},
		{
			name:    "rule tier gap to rule start not multiple of 60",
			repo:    newRepo,
			q:       query("17:30", "18:30"),
			wantErr: domain.ErrInvalidGranularity,
		},
		{
			name: "no opening hours",
			repo: func() *fakePricingRepo {
				r := newRepo()
				r.hours = nil
				return r
			},
			q:       query("07:00", "08:00"),
			wantErr: domain.ErrConfigurationMissing,
		},
		{
			name:    "outside opening hours",
			repo:    newRepo,
			q:       query("05:00", "06:00"),
			wantErr: domain.ErrInvalidRange,
		},
		{
			name:    "reversed range",
			repo:    newRepo,
			q:       query("08:00", "07:00"),
			wantErr: domain.ErrInvalidRange,
		},
		{
			name: "storage failure",
			repo: func() *fakePricingRepo {
				r := newRepo()
				r.hoursErr = errors.New("connection reset")
				return r
			},
			q:       query("07:00", "08:00"),
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.repo(), domain.GapBoundaryRule, nopLogger{})

			quote, err := svc.Resolve(context.Background(), field, tt.q)

			assert.Nil(t, quote)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolve_FieldGapBoundary(t *testing.T) {
	field := &domain.Field{ID: 10, DefaultPrice: 50000}

	// Against the rule 17:00-22:00 the gaps are 0 and 240
	ruleSvc := NewService(newRepo(), domain.GapBoundaryRule, nopLogger{})
	_, err := ruleSvc.Resolve(context.Background(), field, query("17:00", "18:00"))
	require.NoError(t, err)

	// With field hours 06:00-22:30 the gap to close (270) is not a multiple of 60
	fieldSvc := NewService(newRepo(), domain.GapBoundaryField, nopLogger{})
	_, err = fieldSvc.Resolve(context.Background(), field, query("17:00", "18:00"))
	assert.ErrorIs(t, err, domain.ErrInvalidGranularity)
}
