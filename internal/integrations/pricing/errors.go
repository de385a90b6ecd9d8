package pricing

import "errors"

var (
	// ErrQuoteNotFound возвращается, когда прайсинг не знает такой слот/станцию
	ErrQuoteNotFound = errors.New("pricing client: deposit quote not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("pricing client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("pricing client: invalid response")
)
