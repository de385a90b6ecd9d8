package holds

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/CTR-HoldService/internal/domain"
	holdRepo "github.com/m04kA/CTR-HoldService/internal/infra/storage/hold"
	"github.com/m04kA/CTR-HoldService/internal/integrations/notifier"
	"github.com/m04kA/CTR-HoldService/internal/service/holds/models"
	"github.com/m04kA/CTR-HoldService/pkg/metrics"
)

// Service сервис для чтения и отмены hold'ов
type Service struct {
	holdRepo     HoldRepository
	notifier     NotifierClient
	timing       domain.HoldTiming
	timeProvider TimeProvider
	metrics      *metrics.Metrics
	logger       Logger
}

// NewService создает новый экземпляр сервиса hold'ов. m может быть nil,
// если метрики отключены
func NewService(
	holdRepo HoldRepository,
	notifier NotifierClient,
	timing domain.HoldTiming,
	timeProvider TimeProvider,
	m *metrics.Metrics,
	logger Logger,
) *Service {
	return &Service{
		holdRepo:     holdRepo,
		notifier:     notifier,
		timing:       timing,
		timeProvider: timeProvider,
		metrics:      m,
		logger:       logger,
	}
}

// GetByToken получает проекцию hold'а по публичному токену.
// Hold в терминальном статусе остаётся доступным по токену - клиент
// должен видеть, что произошло с его бронью, а не получать 404.
func (s *Service) GetByToken(ctx context.Context, token string) (*models.HoldView, error) {
	h, err := s.holdRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			s.logger.Warn("GetByToken: hold token=%s not found", shortToken(token))
			return nil, ErrTokenInvalid
		}
		s.logger.Error("GetByToken: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetByToken - repository error: %v", ErrInternal, err)
	}

	return models.ViewFromDomain(h, s.timeProvider.Now(), s.timing.WarningLead), nil
}

// CancelByToken отменяет hold по публичному токену (запрос клиента).
// Причина отмены всегда CUSTOMER_REQUEST.
func (s *Service) CancelByToken(ctx context.Context, token string) (*models.HoldView, error) {
	h, err := s.holdRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			s.logger.Warn("CancelByToken: hold token=%s not found", shortToken(token))
			return nil, ErrTokenInvalid
		}
		s.logger.Error("CancelByToken: repository error: %v", err)
		return nil, fmt.Errorf("%w: CancelByToken - repository error: %v", ErrInternal, err)
	}

	return s.cancel(ctx, h, domain.ReasonCustomerRequest)
}

// CancelByID отменяет hold по внутреннему ID (запрос администратора).
// Причина отмены всегда ADMIN_REQUEST.
func (s *Service) CancelByID(ctx context.Context, holdID int64) (*models.HoldView, error) {
	h, err := s.holdRepo.GetByID(ctx, holdID)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			s.logger.Warn("CancelByID: hold id=%d not found", holdID)
			return nil, ErrHoldNotFound
		}
		s.logger.Error("CancelByID: repository error for hold id=%d: %v", holdID, err)
		return nil, fmt.Errorf("%w: CancelByID - repository error: %v", ErrInternal, err)
	}

	return s.cancel(ctx, h, domain.ReasonAdminRequest)
}

// GetStationHolds получает список hold'ов станции с фильтрацией
func (s *Service) GetStationHolds(ctx context.Context, req *models.StationHoldsRequest) (*models.StationHoldsResponse, error) {
	s.logger.Info("GetStationHolds: fetching holds for station=%d", req.StationID)

	filter := domain.StationHoldsFilter{
		StationID:       req.StationID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IncludeTerminal: req.IncludeTerminal,
	}
	if req.Status != nil {
		status, err := toDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetStationHolds: invalid status=%s for station=%d", *req.Status, req.StationID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	found, err := s.holdRepo.GetByStationWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetStationHolds: repository error for station=%d: %v", req.StationID, err)
		return nil, fmt.Errorf("%w: GetStationHolds - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	views := make([]*models.HoldView, 0, len(found))
	for _, h := range found {
		views = append(views, models.ViewFromDomain(h, now, s.timing.WarningLead))
	}

	s.logger.Info("GetStationHolds: found %d holds for station=%d", len(views), req.StationID)
	return &models.StationHoldsResponse{Holds: views}, nil
}

// cancel выполняет условную запись отмены из текущего статуса hold'а.
// Конфликт версий означает конкурирующую запись (подписание, свипер,
// штамп предупреждения): hold перечитывается и отмена повторяется один раз
// со свежей версией. Если hold уже терминален - возвращается ErrWrongState.
func (s *Service) cancel(ctx context.Context, h *domain.SlotHold, reason string) (*models.HoldView, error) {
	if h.IsTerminal() {
		s.logger.Warn("cancel: hold id=%d already in terminal status=%s", h.ID, h.Status)
		return nil, fmt.Errorf("%w: status=%s", ErrWrongState, h.Status)
	}

	now := s.timeProvider.Now()
	err := s.holdRepo.MarkCancelled(ctx, h.ID, h.Version, h.Status, reason, now)
	if errors.Is(err, holdRepo.ErrHoldConflict) {
		fresh, rerr := s.holdRepo.GetByID(ctx, h.ID)
		if rerr != nil {
			s.logger.Error("cancel: re-read failed for hold id=%d: %v", h.ID, rerr)
			return nil, fmt.Errorf("%w: cancel - re-read failed: %v", ErrInternal, rerr)
		}
		if fresh.IsTerminal() {
			s.logger.Warn("cancel: hold id=%d reached terminal status=%s concurrently", fresh.ID, fresh.Status)
			return nil, fmt.Errorf("%w: status=%s", ErrWrongState, fresh.Status)
		}
		h = fresh
		err = s.holdRepo.MarkCancelled(ctx, h.ID, h.Version, h.Status, reason, now)
	}
	if err != nil {
		s.logger.Error("cancel: conditional write failed for hold id=%d: %v", h.ID, err)
		return nil, fmt.Errorf("%w: cancel - conditional write failed: %v", ErrInternal, err)
	}

	if s.metrics != nil {
		s.metrics.IncHoldCancelled(reason)
	}

	s.logger.Info("cancel: hold id=%d cancelled, reason=%s", h.ID, reason)

	if err := s.notifier.Notify(ctx, h.ID, notifier.EventHoldCancelled); err != nil {
		// Уведомление best-effort, отмена уже зафиксирована
		s.logger.Warn("cancel: notification failed for hold id=%d: %v", h.ID, err)
	}

	updated, err := s.holdRepo.GetByID(ctx, h.ID)
	if err != nil {
		s.logger.Error("cancel: re-read after cancel failed for hold id=%d: %v", h.ID, err)
		return nil, fmt.Errorf("%w: cancel - re-read failed: %v", ErrInternal, err)
	}
	return models.ViewFromDomain(updated, now, s.timing.WarningLead), nil
}

func toDomainStatus(s string) (domain.HoldStatus, error) {
	switch domain.HoldStatus(s) {
	case domain.StatusPendingSignature, domain.StatusPendingDeposit,
		domain.StatusCompleted, domain.StatusExpired, domain.StatusCancelled:
		return domain.HoldStatus(s), nil
	default:
		return "", fmt.Errorf("unknown hold status: %s", s)
	}
}

func shortToken(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}
