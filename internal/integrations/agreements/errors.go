package agreements

import "errors"

var (
	// ErrInvalidSignature возвращается, когда AgreementService отклонил payload подписи
	ErrInvalidSignature = errors.New("agreements client: invalid signature payload")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("agreements client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("agreements client: invalid response")
)
