package booking

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

var bookingColumns = []string{
	"b.id",
	"b.field_id",
	"b.user_id",
	"b.total_price",
	"b.customer_name",
	"b.customer_phone",
	"b.booking_date",
	"b.status",
	"b.created_at",
	"b.updated_at",
}

// Repository репозиторий для работы с бронированиями и их кортами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование (без кортов, их добавляет CreateCourt)
// Вызывается внутри транзакции резервирования
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"field_id",
			"user_id",
			"total_price",
			"customer_name",
			"customer_phone",
			"booking_date",
			"status",
		).
		Values(
			booking.FieldID,
			booking.UserID,
			booking.TotalPrice,
			booking.CustomerName,
			booking.CustomerPhone,
			booking.BookingDate.Format(domain.DateFormat),
			booking.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// CreateCourt добавляет диапазон корта к бронированию
func (r *Repository) CreateCourt(ctx context.Context, court *domain.BookingCourt) (*domain.BookingCourt, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_courts").
		Columns("booking_id", "court_id", "start_time", "end_time", "price").
		Values(court.BookingID, court.CourtID, court.StartTime, court.EndTime, court.Price).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateCourt - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&court.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateCourt - execute insert: %w", ErrExecQuery, err)
	}

	return court, nil
}

// GetByID получает бронирование по ID вместе с кортами
// Внутри транзакции строка бронирования блокируется (FOR UPDATE) для смены статуса
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	courts, err := r.loadCourts(ctx, executor, []int64{booking.ID})
	if err != nil {
		return nil, err
	}
	booking.Courts = courts[booking.ID]

	return booking, nil
}

// ListByUser получает бронирования пользователя, новые сначала
func (r *Repository) ListByUser(ctx context.Context, userID int64, filter domain.BookingListFilter) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.user_id": userID})

	return r.list(ctx, "ListByUser", selectBuilder, filter)
}

// ListByOwner получает бронирования на полях всех площадок владельца
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64, filter domain.BookingListFilter) ([]*domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Join("fields f ON f.id = b.field_id").
		Join("venues v ON v.id = f.venue_id").
		Where(squirrel.Eq{"v.owner_id": ownerID})

	return r.list(ctx, "ListByOwner", selectBuilder, filter)
}

// SumCompletedByUser сумма завершённых бронирований пользователя
func (r *Repository) SumCompletedByUser(ctx context.Context, userID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(total_price), 0)").
		From("bookings").
		Where(squirrel.Eq{"user_id": userID, "status": domain.StatusCompleted}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: SumCompletedByUser - build select query: %v", ErrBuildQuery, err)
	}

	var total int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: SumCompletedByUser - scan sum: %w", ErrScanRow, err)
	}

	return total, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// ListRevenueRows возвращает цены кортов завершённых бронирований владельца
// Фильтрует по году и, если указан, месяцу даты бронирования
func (r *Repository) ListRevenueRows(ctx context.Context, filter domain.RevenueFilter) ([]domain.RevenueRow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"v.id",
		"v.name",
		"f.id",
		"f.name",
		"c.id",
		"c.name",
		"bc.price",
	).
		From("booking_courts bc").
		Join("bookings b ON b.id = bc.booking_id").
		Join("courts c ON c.id = bc.court_id").
		Join("fields f ON f.id = b.field_id").
		Join("venues v ON v.id = f.venue_id").
		Where(squirrel.Eq{"v.owner_id": filter.OwnerID, "b.status": domain.StatusCompleted}).
		Where(squirrel.Expr("EXTRACT(YEAR FROM b.booking_date) = ?", filter.Year)).
		OrderBy("v.id", "f.id", "c.id")

	if filter.Month != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr("EXTRACT(MONTH FROM b.booking_date) = ?", *filter.Month))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListRevenueRows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRevenueRows - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.RevenueRow, 0)
	for rows.Next() {
		var row domain.RevenueRow
		if err := rows.Scan(
			&row.VenueID,
			&row.VenueName,
			&row.FieldID,
			&row.FieldName,
			&row.CourtID,
			&row.CourtName,
			&row.Price,
		); err != nil {
			return nil, fmt.Errorf("%w: ListRevenueRows - scan row: %v", ErrScanRow, err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRevenueRows - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

func (r *Repository) list(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder, filter domain.BookingListFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder = selectBuilder.OrderBy("b.created_at DESC", "b.id DESC")
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
		ids = append(ids, booking.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	if len(ids) == 0 {
		return bookings, nil
	}

	courts, err := r.loadCourts(ctx, executor, ids)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		b.Courts = courts[b.ID]
	}

	return bookings, nil
}

// loadCourts получает корты бронирований одним запросом
func (r *Repository) loadCourts(ctx context.Context, executor DBExecutor, bookingIDs []int64) (map[int64][]domain.BookingCourt, error) {
	query, args, err := psqlbuilder.Select(
		"bc.id",
		"bc.booking_id",
		"bc.court_id",
		"c.name",
		"bc.start_time",
		"bc.end_time",
		"bc.price",
	).
		From("booking_courts bc").
		Join("courts c ON c.id = bc.court_id").
		Where(squirrel.Eq{"bc.booking_id": bookingIDs}).
		OrderBy("bc.booking_id", "bc.id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: loadCourts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadCourts - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.BookingCourt, len(bookingIDs))
	for rows.Next() {
		var c domain.BookingCourt
		if err := rows.Scan(
			&c.ID,
			&c.BookingID,
			&c.CourtID,
			&c.CourtName,
			&c.StartTime,
			&c.EndTime,
			&c.Price,
		); err != nil {
			return nil, fmt.Errorf("%w: loadCourts - scan row: %v", ErrScanRow, err)
		}
		result[c.BookingID] = append(result[c.BookingID], c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadCourts - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.FieldID,
		&booking.UserID,
		&booking.TotalPrice,
		&booking.CustomerName,
		&booking.CustomerPhone,
		&booking.BookingDate,
		&booking.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
