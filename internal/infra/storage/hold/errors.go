package hold

import "errors"

var (
	// ErrHoldNotFound возвращается, когда hold не найден
	ErrHoldNotFound = errors.New("hold.repository: hold not found")

	// ErrSlotTaken возвращается, когда на ключ слота уже существует
	// нетерминальный hold (нарушение частичного уникального индекса)
	ErrSlotTaken = errors.New("hold.repository: slot already held")

	// ErrHoldConflict возвращается, когда условная запись не затронула ни одной
	// строки: конкурентный переход успел первым. Вызывающий обязан перечитать
	// hold и отреагировать на его актуальный статус.
	ErrHoldConflict = errors.New("hold.repository: concurrent transition won, re-read required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("hold.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("hold.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("hold.repository: failed to scan row")
)
