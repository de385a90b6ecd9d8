package create_hold

import (
	"errors"
	"net/http"

	"github.com/m04kA/CTR-HoldService/internal/api/handlers"
	createHold "github.com/m04kA/CTR-HoldService/internal/usecase/create_hold"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты слота, ожидается YYYY-MM-DD"
	msgSlotUnavailable    = "выбранное время больше недоступно"
	msgStationNotFound    = "станция или слот не найдены"
	msgPricingUnavailable = "не удалось рассчитать сумму депозита"
	msgInvalidInput       = "некорректные данные брони"
)

type Handler struct {
	useCase CreateHoldUseCase
	logger  Logger
}

func NewHandler(useCase CreateHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/internal/holds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /internal/holds - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /internal/holds - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createHold.ErrSlotUnavailable):
			h.logger.Warn("POST /internal/holds - Slot unavailable: station_id=%d, date=%s, time=%s",
				req.StationID, req.SlotDate, req.SlotTime)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, createHold.ErrStationNotFound):
			h.logger.Warn("POST /internal/holds - Station not found: station_id=%d", req.StationID)
			handlers.RespondNotFound(w, msgStationNotFound)

		case errors.Is(err, createHold.ErrPricingUnavailable):
			h.logger.Error("POST /internal/holds - Pricing unavailable: station_id=%d, error=%v", req.StationID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgPricingUnavailable)

		case errors.Is(err, createHold.ErrInvalidInput):
			h.logger.Warn("POST /internal/holds - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /internal/holds - Failed to create hold: station_id=%d, error=%v",
				req.StationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /internal/holds - Hold created: hold_id=%d, station_id=%d, date=%s, time=%s",
		result.ID, req.StationID, req.SlotDate, req.SlotTime)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
