package sign_agreement

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/CTR-HoldService/internal/api/handlers"
	signAgreement "github.com/m04kA/CTR-HoldService/internal/usecase/sign_agreement"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgHoldNotFound       = "бронь не найдена"
	msgTokenExpired       = "срок действия ссылки истёк"
	msgWrongState         = "бронь не ожидает подписания договора"
	msgDeadlinePassed     = "срок подписания договора истёк, бронь освобождена"
	msgConsentRequired    = "необходимо подтвердить согласие с условиями"
	msgInvalidInput       = "некорректные данные подписи"
)

type Handler struct {
	useCase SignAgreementUseCase
	logger  Logger
}

func NewHandler(useCase SignAgreementUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/holds/{token}/sign
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var req SignAgreementRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /holds/{token}/sign - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(token))
	if err != nil {
		switch {
		case errors.Is(err, signAgreement.ErrTokenInvalid):
			h.logger.Warn("POST /holds/{token}/sign - Hold not found")
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, signAgreement.ErrTokenExpired):
			h.logger.Warn("POST /holds/{token}/sign - Token expired")
			handlers.RespondGone(w, msgTokenExpired)

		case errors.Is(err, signAgreement.ErrDeadlinePassed):
			h.logger.Warn("POST /holds/{token}/sign - Signing deadline passed")
			handlers.RespondConflict(w, msgDeadlinePassed)

		case errors.Is(err, signAgreement.ErrWrongState):
			h.logger.Warn("POST /holds/{token}/sign - Wrong state: %v", err)
			handlers.RespondConflict(w, msgWrongState)

		case errors.Is(err, signAgreement.ErrConsentRequired):
			h.logger.Warn("POST /holds/{token}/sign - Consent not checked")
			handlers.RespondBadRequest(w, msgConsentRequired)

		case errors.Is(err, signAgreement.ErrInvalidInput):
			h.logger.Warn("POST /holds/{token}/sign - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /holds/{token}/sign - Failed to sign agreement: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /holds/{token}/sign - Agreement signed: hold_id=%d, agreement_id=%d",
		result.HoldID, result.SignedAgreementID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
