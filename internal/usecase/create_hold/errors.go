package create_hold

import "errors"

var (
	// ErrSlotUnavailable возвращается, когда на ключ слота уже существует
	// активный hold. Для клиента это "время больше недоступно", не ошибка
	// для повтора.
	ErrSlotUnavailable = errors.New("create_hold: slot is not available")

	// ErrPricingUnavailable возвращается, когда не удалось получить сумму депозита
	ErrPricingUnavailable = errors.New("create_hold: failed to get deposit quote")

	// ErrStationNotFound возвращается, когда прайсинг не знает станцию/слот
	ErrStationNotFound = errors.New("create_hold: station or slot not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_hold: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_hold: internal error")
)
