package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий источников цены: специальное время, правила поля, часы работы
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория цен
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetSpecialTime получает специальное время корта, начинающееся ровно в start на дату
func (r *Repository) GetSpecialTime(ctx context.Context, courtID int64, date time.Time, start types.TimeString) (*domain.CourtSpecialTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"court_id",
		"date",
		"start_time",
		"end_time",
		"price",
		"min_rental",
	).
		From("court_special_times").
		Where(squirrel.Eq{
			"court_id":   courtID,
			"date":       date.Format(domain.DateFormat),
			"start_time": start,
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSpecialTime - build select query: %v", ErrBuildQuery, err)
	}

	var st domain.CourtSpecialTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&st.ID,
		&st.CourtID,
		&st.Date,
		&st.StartTime,
		&st.EndTime,
		&st.Price,
		&st.MinRental,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSpecialTimeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSpecialTime - scan: %w", ErrScanRow, err)
	}

	return &st, nil
}

// FindCoveringRule получает правило цены поля на день недели, целиком покрывающее диапазон
// Если правил несколько (не должно быть, они не пересекаются), берётся самое раннее
func (r *Repository) FindCoveringRule(ctx context.Context, fieldID int64, day time.Weekday, rng types.TimeRange) (*domain.FieldPriceRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"field_id",
		"day_of_week",
		"start_time",
		"end_time",
		"price",
		"min_rental",
	).
		From("field_price_rules").
		Where(squirrel.Eq{"field_id": fieldID, "day_of_week": int(day)}).
		Where(squirrel.LtOrEq{"start_time": rng.Start}).
		Where(squirrel.GtOrEq{"end_time": rng.End}).
		OrderBy("start_time ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindCoveringRule - build select query: %v", ErrBuildQuery, err)
	}

	var rule domain.FieldPriceRule
	var dow int
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rule.ID,
		&rule.FieldID,
		&dow,
		&rule.StartTime,
		&rule.EndTime,
		&rule.Price,
		&rule.MinRental,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindCoveringRule - scan: %w", ErrScanRow, err)
	}
	rule.DayOfWeek = time.Weekday(dow)

	return &rule, nil
}

// GetOpeningHours получает часы работы поля на день недели
func (r *Repository) GetOpeningHours(ctx context.Context, fieldID int64, day time.Weekday) (*domain.OpeningHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("field_id", "open_time", "close_time").
		From("field_opening_hours").
		Where(squirrel.Eq{"field_id": fieldID, "day_of_week": int(day)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOpeningHours - build select query: %v", ErrBuildQuery, err)
	}

	hours := domain.OpeningHours{DayOfWeek: day}
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&hours.FieldID,
		&hours.Open,
		&hours.Close,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOpeningHoursNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOpeningHours - scan: %w", ErrScanRow, err)
	}

	return &hours, nil
}
