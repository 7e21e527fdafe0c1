package services

import (
	"context"
	"fmt"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"service-order/internal/entities"
	"service-order/internal/repositories"
	"service-order/internal/workflow"
	"service-order/pkg/utils"
)

// PaymentStageResolver находит настроенный этап оплаты для целевого статуса и фиксирует его.
// Сумму к этому моменту уже собрал вызывающий, здесь только отметка.
type PaymentStageResolver interface {
	Resolve(ctx context.Context, order *entities.ServiceOrder, target workflow.Status) (*entities.PaymentStageOutcome, error)
}

type PaymentStageService struct {
	repo   repositories.PaymentStageRepositoryInterface
	logger *zap.Logger
}

func NewPaymentStageService(repo repositories.PaymentStageRepositoryInterface, logger *zap.Logger) *PaymentStageService {
	return &PaymentStageService{repo: repo, logger: logger}
}

func (s *PaymentStageService) Resolve(ctx context.Context, order *entities.ServiceOrder, target workflow.Status) (*entities.PaymentStageOutcome, error) {
	if !workflow.IsPaymentTrigger(target) {
		return nil, nil
	}

	cfg, err := s.repo.FindActiveConfig(ctx, order.AttendanceType, target)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска этапа оплаты: %w", err)
	}
	if cfg == nil {
		return nil, nil
	}

	rec := &entities.PaymentStageRecord{
		OrderID:    order.ID,
		ConfigID:   cfg.ID,
		Status:     target,
		StageName:  cfg.StageName,
		Percentage: cfg.Percentage,
	}
	if actorID, err := utils.GetUserIDFromCtx(ctx); err == nil {
		rec.ConfirmedBy = null.Uint64From(actorID)
	}

	recorded, err := s.repo.Record(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("ошибка фиксации этапа оплаты %q: %w", cfg.StageName, err)
	}

	s.logger.Info("Этап оплаты подтверждён",
		zap.Uint64("orderID", order.ID),
		zap.String("stage", cfg.StageName),
		zap.Float64("percentage", cfg.Percentage),
		zap.Bool("recorded", recorded),
	)
	return &entities.PaymentStageOutcome{Config: *cfg, Recorded: recorded}, nil
}
