package holds

import "errors"

var (
	// ErrHoldNotFound - hold не найден
	ErrHoldNotFound = errors.New("service/holds: hold not found")
	// ErrTokenInvalid - токен не найден
	ErrTokenInvalid = errors.New("service/holds: token invalid")
	// ErrWrongState - hold уже в терминальном статусе, отмена невозможна
	ErrWrongState = errors.New("service/holds: hold is in terminal state")
	// ErrInvalidInput - некорректные входные данные
	ErrInvalidInput = errors.New("service/holds: invalid input")
	// ErrInternal - внутренняя ошибка сервиса
	ErrInternal = errors.New("service/holds: internal error")
)
