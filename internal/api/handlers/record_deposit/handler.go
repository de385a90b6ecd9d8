package record_deposit

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/CTR-HoldService/internal/api/handlers"
	recordDeposit "github.com/m04kA/CTR-HoldService/internal/usecase/record_deposit"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgHoldNotFound       = "бронь не найдена"
	msgTokenExpired       = "срок действия ссылки истёк"
	msgWrongState         = "бронь не ожидает внесения депозита"
	msgDeadlinePassed     = "срок внесения депозита истёк, бронь освобождена"
	msgAmountMismatch     = "сумма платежа не совпадает с требуемым депозитом"
	msgInvalidInput       = "некорректные данные платежа"
)

type Handler struct {
	useCase RecordDepositUseCase
	logger  Logger
}

func NewHandler(useCase RecordDepositUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/holds/{token}/deposit
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var req RecordDepositRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /holds/{token}/deposit - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(token))
	if err != nil {
		switch {
		case errors.Is(err, recordDeposit.ErrTokenInvalid):
			h.logger.Warn("POST /holds/{token}/deposit - Hold not found")
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, recordDeposit.ErrTokenExpired):
			h.logger.Warn("POST /holds/{token}/deposit - Token expired")
			handlers.RespondGone(w, msgTokenExpired)

		case errors.Is(err, recordDeposit.ErrDeadlinePassed):
			h.logger.Warn("POST /holds/{token}/deposit - Payment deadline passed")
			handlers.RespondConflict(w, msgDeadlinePassed)

		case errors.Is(err, recordDeposit.ErrWrongState):
			h.logger.Warn("POST /holds/{token}/deposit - Wrong state: %v", err)
			handlers.RespondConflict(w, msgWrongState)

		case errors.Is(err, recordDeposit.ErrAmountMismatch):
			h.logger.Warn("POST /holds/{token}/deposit - Amount mismatch: amount=%d", req.AmountCents)
			handlers.RespondBadRequest(w, msgAmountMismatch)

		case errors.Is(err, recordDeposit.ErrInvalidInput):
			h.logger.Warn("POST /holds/{token}/deposit - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /holds/{token}/deposit - Failed to record deposit: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Повторная фиксация того же платежа возвращает прежний результат,
	// а не ошибку: клиент и webhook платёжной системы могут дублировать запрос
	status := http.StatusCreated
	if result.AlreadyRecorded {
		status = http.StatusOK
	}

	h.logger.Info("POST /holds/{token}/deposit - Deposit recorded: hold_id=%d, booking_id=%d, already_recorded=%t",
		result.HoldID, result.BookingID, result.AlreadyRecorded)
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}
