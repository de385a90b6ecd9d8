package get_hold

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/CTR-HoldService/internal/api/handlers"
	"github.com/m04kA/CTR-HoldService/internal/service/holds"
)

const msgHoldNotFound = "бронь не найдена"

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

// Handle GET /api/v1/holds/{token}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	// Hold в терминальном статусе тоже отдаётся: клиент должен увидеть,
	// что бронь истекла или отменена, а не 404
	view, err := h.service.GetByToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, holds.ErrTokenInvalid):
			h.logger.Warn("GET /holds/{token} - Hold not found")
			handlers.RespondNotFound(w, msgHoldNotFound)

		default:
			h.logger.Error("GET /holds/{token} - Failed to get hold: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /holds/{token} - Hold retrieved: hold_id=%d, status=%s", view.ID, view.Status)
	handlers.RespondJSON(w, http.StatusOK, view)
}
