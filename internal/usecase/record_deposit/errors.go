package record_deposit

import "errors"

var (
	// ErrTokenInvalid возвращается, когда hold с таким токеном не найден
	ErrTokenInvalid = errors.New("record_deposit: token invalid")

	// ErrTokenExpired возвращается, когда срок жизни токена истёк
	ErrTokenExpired = errors.New("record_deposit: token expired")

	// ErrWrongState возвращается, когда hold не в статусе PENDING_DEPOSIT.
	// Текст ошибки содержит актуальный статус hold'а.
	ErrWrongState = errors.New("record_deposit: hold is not awaiting deposit")

	// ErrDeadlinePassed возвращается, когда дедлайн оплаты прошёл
	ErrDeadlinePassed = errors.New("record_deposit: payment deadline passed")

	// ErrAmountMismatch возвращается, когда сумма платежа не равна требуемому
	// депозиту, зафиксированному на hold при создании
	ErrAmountMismatch = errors.New("record_deposit: amount does not match required deposit")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("record_deposit: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("record_deposit: internal error")
)
