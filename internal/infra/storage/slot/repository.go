package slot

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-CourtBooking/pkg/types"
)

// advisoryLockNamespace первый ключ pg_advisory_xact_lock для блокировок корт-день
const advisoryLockNamespace = "court_slot"

// Repository хранилище блокировок слотов кортов (court_slots)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр хранилища слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockCourtDay сериализует работу со слотами корта на дату до конца текущей транзакции
// Вне транзакции advisory xact lock бессмыслен, поэтому возвращается ErrNoTransaction
func (r *Repository) LockCourtDay(ctx context.Context, courtID int64, date time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNoTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	key := fmt.Sprintf("%d:%s", courtID, date.Format(domain.DateFormat))
	query := "SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))"

	if _, err := executor.ExecContext(ctx, query, advisoryLockNamespace, key); err != nil {
		return fmt.Errorf("%w: LockCourtDay - court=%d: %w", ErrExecQuery, courtID, err)
	}
	return nil
}

// CheckOverlap проверяет, пересекается ли диапазон с любым слотом корта на дату
// Касание границ пересечением не считается
func (r *Repository) CheckOverlap(ctx context.Context, courtID int64, date time.Time, rng types.TimeRange) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("court_slots").
		Where(squirrel.Eq{
			"court_id": courtID,
			"date":     date.Format(domain.DateFormat),
		}).
		Where(squirrel.Lt{"start_time": rng.End}).
		Where(squirrel.Gt{"end_time": rng.Start}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: CheckOverlap - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: CheckOverlap - scan: %w", ErrScanRow, err)
	}
	return exists, nil
}

// Exists проверяет наличие слота ровно с такими границами
func (r *Repository) Exists(ctx context.Context, courtID int64, rng types.TimeRange, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("court_slots").
		Where(squirrel.Eq{
			"court_id":   courtID,
			"date":       date.Format(domain.DateFormat),
			"start_time": rng.Start,
			"end_time":   rng.End,
		}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Exists - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: Exists - scan: %w", ErrScanRow, err)
	}
	return exists, nil
}

// Create сохраняет слот
func (r *Repository) Create(ctx context.Context, slot *domain.CourtSlot) (*domain.CourtSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("court_slots").
		Columns(
			"court_id",
			"booking_court_id",
			"date",
			"start_time",
			"end_time",
			"is_locked",
			"locked_by_owner",
		).
		Values(
			slot.CourtID,
			slot.BookingCourtID,
			slot.Date.Format(domain.DateFormat),
			slot.StartTime,
			slot.EndTime,
			slot.IsLocked,
			slot.LockedByOwner,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	return slot, nil
}

// DeleteByBooking удаляет все слоты бронирования, возвращает количество удалённых
func (r *Repository) DeleteByBooking(ctx context.Context, bookingID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("court_slots").
		Where("booking_court_id IN (SELECT id FROM booking_courts WHERE booking_id = ?)", bookingID).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByBooking - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByBooking - execute delete: %w", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByBooking - get rows affected: %v", ErrExecQuery, err)
	}
	return deleted, nil
}
