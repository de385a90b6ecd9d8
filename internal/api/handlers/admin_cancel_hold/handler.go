package admin_cancel_hold

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/CTR-HoldService/internal/api/handlers"
	"github.com/m04kA/CTR-HoldService/internal/api/middleware"
	"github.com/m04kA/CTR-HoldService/internal/service/holds"
)

const (
	msgInvalidHoldID  = "некорректный ID брони"
	msgMissingAdminID = "отсутствует ID администратора"
	msgHoldNotFound   = "бронь не найдена"
	msgWrongState     = "бронь уже завершена и не может быть отменена"
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

// Handle PATCH /api/v1/internal/holds/{holdId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	holdID, err := strconv.ParseInt(vars["holdId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /internal/holds/{id}/cancel - Invalid hold ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHoldID)
		return
	}

	adminID, ok := middleware.GetAdminID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /internal/holds/{id}/cancel - Missing admin ID")
		handlers.RespondUnauthorized(w, msgMissingAdminID)
		return
	}

	view, err := h.service.CancelByID(r.Context(), holdID)
	if err != nil {
		switch {
		case errors.Is(err, holds.ErrHoldNotFound):
			h.logger.Warn("PATCH /internal/holds/{id}/cancel - Hold not found: hold_id=%d, admin_id=%d",
				holdID, adminID)
			handlers.RespondNotFound(w, msgHoldNotFound)

		case errors.Is(err, holds.ErrWrongState):
			h.logger.Warn("PATCH /internal/holds/{id}/cancel - Wrong state: hold_id=%d, admin_id=%d, error=%v",
				holdID, adminID, err)
			handlers.RespondConflict(w, msgWrongState)

		default:
			h.logger.Error("PATCH /internal/holds/{id}/cancel - Failed to cancel hold: hold_id=%d, admin_id=%d, error=%v",
				holdID, adminID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /internal/holds/{id}/cancel - Hold cancelled: hold_id=%d, admin_id=%d", holdID, adminID)
	handlers.RespondJSON(w, http.StatusOK, view)
}
