package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

// Repository read-only справочник площадок, полей и кортов
// Площадки ведёт отдельный сервис, здесь только чтение
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetFieldWithVenue получает поле вместе с площадкой (владелец, банковские реквизиты)
func (r *Repository) GetFieldWithVenue(ctx context.Context, fieldID int64) (*domain.FieldWithVenue, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"f.id",
		"f.venue_id",
		"f.name",
		"f.default_price",
		"v.id",
		"v.owner_id",
		"v.name",
		"v.address",
		"v.latitude",
		"v.longitude",
		"v.status",
		"v.bank_name",
		"v.bank_account",
		"v.bank_holder",
	).
		From("fields f").
		Join("venues v ON v.id = f.venue_id").
		Where(squirrel.Eq{"f.id": fieldID}).
		Where("v.deleted_at IS NULL").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetFieldWithVenue - build select query: %v", ErrBuildQuery, err)
	}

	var fv domain.FieldWithVenue
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&fv.Field.ID,
		&fv.Field.VenueID,
		&fv.Field.Name,
		&fv.Field.DefaultPrice,
		&fv.Venue.ID,
		&fv.Venue.OwnerID,
		&fv.Venue.Name,
		&fv.Venue.Address,
		&fv.Venue.Latitude,
		&fv.Venue.Longitude,
		&fv.Venue.Status,
		&fv.Venue.BankName,
		&fv.Venue.BankAccount,
		&fv.Venue.BankHolder,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFieldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetFieldWithVenue - scan: %w", ErrScanRow, err)
	}

	return &fv, nil
}

// GetCourt получает корт по ID
func (r *Repository) GetCourt(ctx context.Context, courtID int64) (*domain.Court, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "field_id", "name").
		From("courts").
		Where(squirrel.Eq{"id": courtID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetCourt - build select query: %v", ErrBuildQuery, err)
	}

	var court domain.Court
	err = executor.QueryRowContext(ctx, query, args...).Scan(&court.ID, &court.FieldID, &court.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCourt - scan: %w", ErrScanRow, err)
	}

	return &court, nil
}
