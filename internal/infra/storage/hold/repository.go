package hold

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/CTR-HoldService/internal/domain"
	"github.com/m04kA/CTR-HoldService/pkg/dbmetrics"
	"github.com/m04kA/CTR-HoldService/pkg/psqlbuilder"
)

// uniqueViolation код PostgreSQL для нарушения уникального индекса
const uniqueViolation = "23505"

// holdColumns полный набор колонок slot_holds в порядке сканирования
var holdColumns = []string{
	"id",
	"token",
	"version",
	"station_id",
	"slot_date",
	"slot_time",
	"customer_name",
	"customer_email",
	"customer_phone",
	"guest_count",
	"status",
	"deposit_amount_cents",
	"signing_deadline_at",
	"signing_warning_sent_at",
	"agreement_signed_at",
	"signed_agreement_id",
	"payment_deadline_at",
	"payment_warning_sent_at",
	"deposit_paid_at",
	"deposit_payment_method",
	"deposit_payment_reference",
	"cancellation_reason",
	"booking_id",
	"token_expires_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий slot hold'ов.
// Все переходы статуса реализованы единственным примитивом - условной записью
// UPDATE ... WHERE id = ? AND status = ? AND version = ?. Ноль затронутых строк
// означает, что конкурентный переход успел первым (ErrHoldConflict).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория hold'ов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый hold со статусом PENDING_SIGNATURE.
// Эксклюзивность слота гарантирует частичный уникальный индекс
// ux_slot_holds_active_slot: при конкурентной вставке на тот же ключ слота БД
// вернёт unique_violation, которое транслируется в ErrSlotTaken. Предварительная
// проверка "а свободен ли слот" намеренно отсутствует - она не была бы race-free.
func (r *Repository) Create(ctx context.Context, h *domain.SlotHold) (*domain.SlotHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slot_holds").
		Columns(
			"token",
			"station_id",
			"slot_date",
			"slot_time",
			"customer_name",
			"customer_email",
			"customer_phone",
			"guest_count",
			"status",
			"deposit_amount_cents",
			"signing_deadline_at",
			"token_expires_at",
		).
		Values(
			h.Token,
			h.StationID,
			h.SlotDate,
			h.SlotTime,
			h.CustomerName,
			h.CustomerEmail,
			h.CustomerPhone,
			h.GuestCount,
			h.Status,
			h.DepositAmountCents,
			h.SigningDeadlineAt,
			h.TokenExpiresAt,
		).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&h.ID,
		&h.Version,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == "ux_slot_holds_active_slot" {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	h.CreatedAt = createdAt.Time
	h.UpdatedAt = updatedAt.Time

	return h, nil
}

// GetByID получает hold по внутреннему ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.SlotHold, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetByToken получает hold по публичному токену.
// Токен остаётся резолвимым и после терминальных статусов - клиент должен
// видеть "предложение истекло", а не обобщённую ошибку.
func (r *Repository) GetByToken(ctx context.Context, token string) (*domain.SlotHold, error) {
	return r.getOne(ctx, squirrel.Eq{"token": token}, "GetByToken")
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, method string) (*domain.SlotHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(holdColumns...).
		From("slot_holds").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	h, err := scanHold(row)
	if err == sql.ErrNoRows {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan hold: %v", ErrScanRow, method, err)
	}

	return h, nil
}

// GetByStationWithFilter получает hold'ы станции с фильтрацией по периоду
// и статусу. По умолчанию терминальные hold'ы исключаются.
func (r *Repository) GetByStationWithFilter(ctx context.Context, filter domain.StationHoldsFilter) ([]*domain.SlotHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(holdColumns...).
		From("slot_holds").
		Where(squirrel.Eq{"station_id": filter.StationID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"slot_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"slot_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeTerminal {
		terminalStatusStrings := make([]string, len(domain.TerminalStatuses))
		for i, s := range domain.TerminalStatuses {
			terminalStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": terminalStatusStrings})
	}

	selectBuilder = selectBuilder.OrderBy("slot_date ASC, slot_time ASC, id ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStationWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStationWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanHolds(rows)
}

// MarkSigned переводит hold PENDING_SIGNATURE -> PENDING_DEPOSIT одной условной
// записью: фиксирует подпись, ссылку на подписанный договор и дедлайн оплаты
func (r *Repository) MarkSigned(ctx context.Context, id, version, agreementID int64, signedAt, paymentDeadline time.Time) error {
	return r.transition(ctx, "MarkSigned", id, version, domain.StatusPendingSignature, map[string]interface{}{
		"status":              domain.StatusPendingDeposit,
		"agreement_signed_at": signedAt,
		"signed_agreement_id": agreementID,
		"payment_deadline_at": paymentDeadline,
		"updated_at":          signedAt,
	})
}

// MarkCompleted переводит hold PENDING_DEPOSIT -> COMPLETED и записывает данные
// платежа и ID созданного бронирования. Вызывается только внутри транзакции
// конвертации (см. usecase record_deposit) - крах между вставкой бронирования
// и этой записью откатывает обе.
func (r *Repository) MarkCompleted(ctx context.Context, id, version int64, paidAt time.Time, method, reference string, bookingID int64) error {
	return r.transition(ctx, "MarkCompleted", id, version, domain.StatusPendingDeposit, map[string]interface{}{
		"status":                    domain.StatusCompleted,
		"deposit_paid_at":           paidAt,
		"deposit_payment_method":    method,
		"deposit_payment_reference": reference,
		"booking_id":                bookingID,
		"updated_at":                paidAt,
	})
}

// MarkExpired переводит hold из from в EXPIRED с указанием причины
func (r *Repository) MarkExpired(ctx context.Context, id, version int64, from domain.HoldStatus, reason string, now time.Time) error {
	return r.transition(ctx, "MarkExpired", id, version, from, map[string]interface{}{
		"status":              domain.StatusExpired,
		"cancellation_reason": reason,
		"updated_at":          now,
	})
}

// MarkCancelled переводит hold из from в CANCELLED с указанием причины
func (r *Repository) MarkCancelled(ctx context.Context, id, version int64, from domain.HoldStatus, reason string, now time.Time) error {
	return r.transition(ctx, "MarkCancelled", id, version, from, map[string]interface{}{
		"status":              domain.StatusCancelled,
		"cancellation_reason": reason,
		"updated_at":          now,
	})
}

// StampSigningWarning помечает предупреждение о дедлайне подписания отправленным.
// Условие signing_warning_sent_at IS NULL делает запись идемпотентной: из
// нескольких конкурентных sweeper'ов штамп поставит ровно один, и только он
// отправит уведомление.
func (r *Repository) StampSigningWarning(ctx context.Context, id, version int64, sentAt time.Time) error {
	return r.stampWarning(ctx, "StampSigningWarning", id, version,
		domain.StatusPendingSignature, "signing_warning_sent_at", sentAt)
}

// StampPaymentWarning помечает предупреждение о дедлайне оплаты отправленным
func (r *Repository) StampPaymentWarning(ctx context.Context, id, version int64, sentAt time.Time) error {
	return r.stampWarning(ctx, "StampPaymentWarning", id, version,
		domain.StatusPendingDeposit, "payment_warning_sent_at", sentAt)
}

func (r *Repository) stampWarning(ctx context.Context, method string, id, version int64, from domain.HoldStatus, column string, sentAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slot_holds").
		Set(column, sentAt).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", sentAt).
		Where(squirrel.Eq{"id": id, "status": from, "version": version}).
		Where(fmt.Sprintf("%s IS NULL", column)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	return r.execConditional(ctx, executor, method, query, args)
}

// transition общий примитив условного перехода: гарантирует guard по
// (id, status, version) и инкремент version в каждой записи
func (r *Repository) transition(ctx context.Context, method string, id, version int64, from domain.HoldStatus, sets map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("slot_holds").
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": id, "status": from, "version": version})

	for column, value := range sets {
		updateBuilder = updateBuilder.Set(column, value)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	return r.execConditional(ctx, executor, method, query, args)
}

func (r *Repository) execConditional(ctx context.Context, executor DBExecutor, method, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	if rowsAffected == 0 {
		return ErrHoldConflict
	}

	return nil
}

// FindSigningWarningsDue возвращает hold'ы, ожидающие подписания, которые вошли
// в окно предупреждения, но ещё не получили его. Hold'ы за дедлайном
// исключаются - их подберёт ветка экспирации того же tick'а.
func (r *Repository) FindSigningWarningsDue(ctx context.Context, now time.Time, warningLead time.Duration, limit uint64) ([]*domain.SlotHold, error) {
	return r.findDue(ctx, "FindSigningWarningsDue", limit, squirrel.And{
		squirrel.Eq{"status": domain.StatusPendingSignature},
		squirrel.Expr("signing_warning_sent_at IS NULL"),
		squirrel.LtOrEq{"signing_deadline_at": now.Add(warningLead)},
		squirrel.Gt{"signing_deadline_at": now},
	})
}

// FindPaymentWarningsDue возвращает hold'ы, ожидающие оплаты, которые вошли
// в окно предупреждения, но ещё не получили его
func (r *Repository) FindPaymentWarningsDue(ctx context.Context, now time.Time, warningLead time.Duration, limit uint64) ([]*domain.SlotHold, error) {
	return r.findDue(ctx, "FindPaymentWarningsDue", limit, squirrel.And{
		squirrel.Eq{"status": domain.StatusPendingDeposit},
		squirrel.Expr("payment_warning_sent_at IS NULL"),
		squirrel.LtOrEq{"payment_deadline_at": now.Add(warningLead)},
		squirrel.Gt{"payment_deadline_at": now},
	})
}

// FindSigningOverdue возвращает hold'ы, просрочившие дедлайн подписания
func (r *Repository) FindSigningOverdue(ctx context.Context, now time.Time, limit uint64) ([]*domain.SlotHold, error) {
	return r.findDue(ctx, "FindSigningOverdue", limit, squirrel.And{
		squirrel.Eq{"status": domain.StatusPendingSignature},
		squirrel.LtOrEq{"signing_deadline_at": now},
	})
}

// FindPaymentOverdue возвращает hold'ы, просрочившие дедлайн оплаты
func (r *Repository) FindPaymentOverdue(ctx context.Context, now time.Time, limit uint64) ([]*domain.SlotHold, error) {
	return r.findDue(ctx, "FindPaymentOverdue", limit, squirrel.And{
		squirrel.Eq{"status": domain.StatusPendingDeposit},
		squirrel.LtOrEq{"payment_deadline_at": now},
	})
}

func (r *Repository) findDue(ctx context.Context, method string, limit uint64, where squirrel.And) ([]*domain.SlotHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(holdColumns...).
		From("slot_holds").
		Where(where).
		OrderBy("id ASC").
		Limit(limit).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	return scanHolds(rows)
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHold(row rowScanner) (*domain.SlotHold, error) {
	var h domain.SlotHold
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&h.ID,
		&h.Token,
		&h.Version,
		&h.StationID,
		&h.SlotDate,
		&h.SlotTime,
		&h.CustomerName,
		&h.CustomerEmail,
		&h.CustomerPhone,
		&h.GuestCount,
		&h.Status,
		&h.DepositAmountCents,
		&h.SigningDeadlineAt,
		&h.SigningWarningSentAt,
		&h.AgreementSignedAt,
		&h.SignedAgreementID,
		&h.PaymentDeadlineAt,
		&h.PaymentWarningSentAt,
		&h.DepositPaidAt,
		&h.DepositPaymentMethod,
		&h.DepositPaymentReference,
		&h.CancellationReason,
		&h.BookingID,
		&h.TokenExpiresAt,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, err
	}

	h.CreatedAt = createdAt.Time
	h.UpdatedAt = updatedAt.Time

	return &h, nil
}

func scanHolds(rows *sql.Rows) ([]*domain.SlotHold, error) {
	holds := make([]*domain.SlotHold, 0)

	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanHolds - scan row: %v", ErrScanRow, err)
		}
		holds = append(holds, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanHolds - rows error: %v", ErrScanRow, err)
	}

	return holds, nil
}
