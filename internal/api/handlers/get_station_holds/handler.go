package get_station_holds

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/CTR-HoldService/internal/api/handlers"
	"github.com/m04kA/CTR-HoldService/internal/service/holds"
)

const (
	msgInvalidStationID = "некорректный ID станции"
	msgInvalidQuery     = "некорректные параметры фильтрации"
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

// Handle GET /api/v1/internal/stations/{stationId}/holds
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	stationID, err := strconv.ParseInt(vars["stationId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /internal/stations/{id}/holds - Invalid station ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStationID)
		return
	}

	query := r.URL.Query()
	req, err := ToServiceRequest(
		stationID,
		query.Get("startDate"),
		query.Get("endDate"),
		query.Get("status"),
		query.Get("includeTerminal"),
	)
	if err != nil {
		h.logger.Warn("GET /internal/stations/{id}/holds - Invalid query: station_id=%d, error=%v", stationID, err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.service.GetStationHolds(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, holds.ErrInvalidInput):
			h.logger.Warn("GET /internal/stations/{id}/holds - Invalid input: station_id=%d, error=%v", stationID, err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		default:
			h.logger.Error("GET /internal/stations/{id}/holds - Failed to get holds: station_id=%d, error=%v",
				stationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /internal/stations/{id}/holds - Retrieved %d holds: station_id=%d",
		len(result.Holds), stationID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
