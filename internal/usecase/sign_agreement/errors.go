package sign_agreement

import "errors"

var (
	// ErrTokenInvalid возвращается, когда hold с таким токеном не найден
	ErrTokenInvalid = errors.New("sign_agreement: token invalid")

	// ErrTokenExpired возвращается, когда срок жизни токена истёк
	ErrTokenExpired = errors.New("sign_agreement: token expired")

	// ErrWrongState возвращается, когда hold не в статусе PENDING_SIGNATURE.
	// Текст ошибки содержит актуальный статус hold'а.
	ErrWrongState = errors.New("sign_agreement: hold is not awaiting signature")

	// ErrDeadlinePassed возвращается, когда дедлайн подписания прошёл
	ErrDeadlinePassed = errors.New("sign_agreement: signing deadline passed")

	// ErrConsentRequired возвращается, когда клиент не подтвердил согласие с условиями
	ErrConsentRequired = errors.New("sign_agreement: consent checkbox is required")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("sign_agreement: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("sign_agreement: internal error")
)
