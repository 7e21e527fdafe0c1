package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"service-order/internal/dto"
	"service-order/internal/entities"
	"service-order/internal/repositories"
	"service-order/internal/workflow"
)

const (
	defaultTimelineLimit = 200
	timelineTimeLayout   = "02.01.2006 / 15:04"
)

type OrderHistoryServiceInterface interface {
	GetTimelineByOrderID(ctx context.Context, orderID uint64, limitStr, offsetStr string) ([]dto.TimelineEventDTO, error)
}

type OrderHistoryService struct {
	repo   repositories.OrderHistoryRepositoryInterface
	logger *zap.Logger
}

func NewOrderHistoryService(repo repositories.OrderHistoryRepositoryInterface, logger *zap.Logger) OrderHistoryServiceInterface {
	return &OrderHistoryService{repo: repo, logger: logger}
}

// GetTimelineByOrderID строит журнал переходов. Записи одной транзакции (общий tx_id) сливаются в один блок.
func (s *OrderHistoryService) GetTimelineByOrderID(ctx context.Context, orderID uint64, limitStr, offsetStr string) ([]dto.TimelineEventDTO, error) {
	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > defaultTimelineLimit {
		limit = defaultTimelineLimit
	}
	offset, _ := strconv.Atoi(offsetStr)
	if offset < 0 {
		offset = 0
	}

	historyEvents, err := s.repo.FindByOrderID(ctx, orderID, uint64(limit), uint64(offset))
	if err != nil || len(historyEvents) == 0 {
		return []dto.TimelineEventDTO{}, err
	}

	var timeline []dto.TimelineEventDTO
	currentBlock := createTimelineBlock(historyEvents[0])
	addEventToBlock(currentBlock, historyEvents[0])

	for i := 1; i < len(historyEvents); i++ {
		event := historyEvents[i]
		prevEvent := historyEvents[i-1]

		isSameTransaction := event.TxID != nil && prevEvent.TxID != nil && *event.TxID == *prevEvent.TxID
		if isSameTransaction {
			addEventToBlock(currentBlock, event)
			continue
		}
		timeline = append(timeline, *currentBlock)
		currentBlock = createTimelineBlock(event)
		addEventToBlock(currentBlock, event)
	}
	timeline = append(timeline, *currentBlock)

	s.logger.Debug("Таймлайн сформирован", zap.Int("blocks", len(timeline)), zap.Uint64("orderID", orderID))
	return timeline, nil
}

func createTimelineBlock(event entities.OrderHistory) *dto.TimelineEventDTO {
	return &dto.TimelineEventDTO{
		ID:        event.ID,
		EventType: event.EventType,
		ActorID:   event.UserID,
		Lines:     []string{},
		CreatedAt: event.CreatedAt.Format(timelineTimeLayout),
	}
}

func addEventToBlock(block *dto.TimelineEventDTO, event entities.OrderHistory) {
	oldStatus := workflow.Status(event.OldValue.String)
	newStatus := workflow.Status(event.NewValue.String)

	switch event.EventType {
	case entities.HistoryEventStatusChange:
		block.OldStatus, block.NewStatus = oldStatus.String(), newStatus.String()
		block.Icon = workflow.StatusIcon(newStatus)
		block.Lines = append(block.Lines, fmt.Sprintf("Установлен статус: «%s»", workflow.StatusLabel(newStatus)))
	case entities.HistoryEventStatusRevert:
		block.OldStatus, block.NewStatus = oldStatus.String(), newStatus.String()
		block.Icon = "rotate-ccw"
		block.Lines = append(block.Lines, fmt.Sprintf("Статус возвращён: «%s» на «%s»",
			workflow.StatusLabel(oldStatus), workflow.StatusLabel(newStatus)))
	}

	if event.Comment.Valid && event.Comment.String != "" {
		block.Comment = event.Comment.String
	}

	if len(event.Actions) > 0 {
		if block.Actions == nil {
			block.Actions = make(map[string]string, len(event.Actions))
		}
		keys := make([]string, 0, len(event.Actions))
		for k, v := range event.Actions {
			block.Actions[k] = v
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			block.Lines = append(block.Lines, fmt.Sprintf("Выполнено действие %s: %s", k, event.Actions[k]))
		}
	}

	if event.SkipReason.Valid {
		block.SkipReason = event.SkipReason.String
		block.Lines = append(block.Lines, fmt.Sprintf("Обязательные действия пропущены: %s", event.SkipReason.String))
	}
}
