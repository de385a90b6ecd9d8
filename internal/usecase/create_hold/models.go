package create_hold

import (
	"time"

	"github.com/m04kA/CTR-HoldService/pkg/types"
)

// Request модель запроса на создание hold
type Request struct {
	StationID     int64            // ID станции (точки обслуживания)
	SlotDate      time.Time        // Дата слота (без времени)
	SlotTime      types.TimeString // Время слота (например, "18:00")
	CustomerName  string           // Имя клиента (снимок на момент создания)
	CustomerEmail string           // Email клиента
	CustomerPhone string           // Телефон клиента (опционально)
	GuestCount    int              // Количество гостей
}

// Response модель ответа с созданным hold
type Response struct {
	ID      int64  // Внутренний ID hold
	Token   string // Публичный токен для клиентского UI
	Version int64  // Версия записи

	StationID int64            // ID станции
	SlotDate  time.Time        // Дата слота
	SlotTime  types.TimeString // Время слота

	Status             string // Статус (pending_signature)
	DepositAmountCents int64  // Требуемый депозит, зафиксированный на hold

	SigningDeadlineAt time.Time // Дедлайн подписания договора
	TokenExpiresAt    time.Time // Срок жизни токена

	CreatedAt time.Time // Время создания
}
