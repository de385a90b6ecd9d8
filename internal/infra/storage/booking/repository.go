package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/CTR-HoldService/internal/domain"
	"github.com/m04kA/CTR-HoldService/pkg/dbmetrics"
	"github.com/m04kA/CTR-HoldService/pkg/psqlbuilder"
)

const uniqueViolation = "23505"

var bookingColumns = []string{
	"id",
	"hold_id",
	"station_id",
	"slot_date",
	"slot_time",
	"customer_name",
	"customer_email",
	"customer_phone",
	"guest_count",
	"deposit_amount_cents",
	"deposit_payment_method",
	"deposit_payment_reference",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий подтверждённых бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование из hold'а, достигшего COMPLETED.
// Вызывается только из транзакции конвертации (usecase record_deposit):
// вставка бронирования и условный переход hold'а фиксируются как единое целое.
// Уникальность hold_id в схеме гарантирует ровно одну конвертацию на hold.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"hold_id",
			"station_id",
			"slot_date",
			"slot_time",
			"customer_name",
			"customer_email",
			"customer_phone",
			"guest_count",
			"deposit_amount_cents",
			"deposit_payment_method",
			"deposit_payment_reference",
			"status",
		).
		Values(
			b.HoldID,
			b.StationID,
			b.SlotDate,
			b.SlotTime,
			b.CustomerName,
			b.CustomerEmail,
			b.CustomerPhone,
			b.GuestCount,
			b.DepositAmountCents,
			b.DepositPaymentMethod,
			b.DepositPaymentReference,
			b.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrHoldAlreadyConverted
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByHoldID получает бронирование по ID исходного hold'а
func (r *Repository) GetByHoldID(ctx context.Context, holdID int64) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"hold_id": holdID}, "GetByHoldID")
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, method string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&b.ID,
		&b.HoldID,
		&b.StationID,
		&b.SlotDate,
		&b.SlotTime,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.GuestCount,
		&b.DepositAmountCents,
		&b.DepositPaymentMethod,
		&b.DepositPaymentReference,
		&b.Status,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, method, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}
