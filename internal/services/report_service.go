package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"service-order/internal/dto"
	"service-order/internal/entities"
	"service-order/internal/repositories"
	"service-order/internal/workflow"
)

type ReportServiceInterface interface {
	GetHistoryReport(ctx context.Context, orderID uint64) ([]dto.HistoryReportRowDTO, error)
}

type reportService struct {
	historyRepo repositories.OrderHistoryRepositoryInterface
	logger      *zap.Logger
}

func NewReportService(historyRepo repositories.OrderHistoryRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &reportService{historyRepo: historyRepo, logger: logger}
}

var historyEventNames = map[string]string{
	entities.HistoryEventStatusChange: "Смена статуса",
	entities.HistoryEventStatusRevert: "Откат статуса",
}

// GetHistoryReport выгружает всю историю заявки без пагинации.
func (s *reportService) GetHistoryReport(ctx context.Context, orderID uint64) ([]dto.HistoryReportRowDTO, error) {
	items, err := s.historyRepo.FindByOrderID(ctx, orderID, 0, 0)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.HistoryReportRowDTO, len(items))
	for i, item := range items {
		eventName, ok := historyEventNames[item.EventType]
		if !ok {
			eventName = item.EventType
		}
		rows[i] = dto.HistoryReportRowDTO{
			Number:     i + 1,
			OrderID:    item.OrderID,
			Date:       item.CreatedAt.Format("02.01.2006"),
			Time:       item.CreatedAt.Format("15:04"),
			EventType:  eventName,
			FromStatus: statusLabelOrEmpty(item.OldValue.String),
			ToStatus:   statusLabelOrEmpty(item.NewValue.String),
			ActorID:    item.UserID,
			Comment:    item.Comment.String,
			Actions:    formatActions(item.Actions),
			SkipReason: item.SkipReason.String,
		}
	}

	s.logger.Debug("Отчёт по истории сформирован", zap.Uint64("orderID", orderID), zap.Int("rows", len(rows)))
	return rows, nil
}

func statusLabelOrEmpty(code string) string {
	if code == "" {
		return ""
	}
	return workflow.StatusLabel(workflow.Status(code))
}

func formatActions(actions map[string]string) string {
	if len(actions) == 0 {
		return ""
	}
	keys := make([]string, 0, len(actions))
	for k := range actions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, actions[k]))
	}
	return strings.Join(parts, "; ")
}
