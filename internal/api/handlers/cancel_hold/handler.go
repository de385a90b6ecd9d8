package cancel_hold

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/CTR-HoldService/internal/api/handlers"
	"github.com/m04kA/CTR-HoldService/internal/service/holds"
)

const (
	msgHoldNotFound = "бронь не найдена"
	msgWrongState   = "бронь уже завершена и не может быть отменена"
)

type Handler struct {
	service HoldService
	logger  Logger
}

func NewHandler(service HoldService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/holds/{token}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	view, err := h.service.CancelByToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, holds.ErrTokenInvalid):
			h.logger.Warn("POST /holds/{token}/cancel - Hold not found")
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, holds.ErrWrongState):
			h.logger.Warn("POST /holds/{token}/cancel - Wrong state: %v", err)
			handlers.RespondConflict(w, msgWrongState)

		default:
			h.logger.Error("POST /holds/{token}/cancel - Failed to cancel hold: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /holds/{token}/cancel - Hold cancelled: hold_id=%d", view.ID)
	handlers.RespondJSON(w, http.StatusOK, view)
}
