// Package txmanager менеджер сериализуемых транзакций поверх dbmetrics.DB
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/CTR-HoldService/pkg/dbmetrics"
)

// maxRetries количество повторов при serialization failure
const maxRetries = 3

var (
	// ErrTxBegin возвращается при ошибке начала транзакции
	ErrTxBegin = errors.New("txmanager: failed to begin transaction")

	// ErrTxCommit возвращается при ошибке фиксации транзакции
	ErrTxCommit = errors.New("txmanager: failed to commit transaction")
)

// TxBeginner интерфейс для начала транзакций
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции в сериализуемых транзакциях
// с автоматическим повтором при конфликтах сериализации
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает новый менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn внутри транзакции с уровнем изоляции SERIALIZABLE.
// Транзакция протаскивается в fn через context (dbmetrics.WithExecutor),
// репозитории автоматически выполняют запросы внутри неё.
// При serialization failure (40001) или deadlock (40P01) повторяет до maxRetries раз.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		lastErr = m.run(ctx, fn)
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

func (m *TransactionManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTxBegin, err)
	}

	txCtx := dbmetrics.WithExecutor(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrTxCommit, err)
	}

	return nil
}

// isRetryable возвращает true для ошибок, при которых транзакцию можно повторить
func isRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	// 40001 - serialization_failure, 40P01 - deadlock_detected
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}
