package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"service-order/internal/entities"
	"service-order/internal/repositories"
	"service-order/internal/workflow"
	"service-order/pkg/utils"
)

// WarrantyActivator активирует гарантию на позиции заявки при завершении.
type WarrantyActivator interface {
	ActivateIfEligible(ctx context.Context, order *entities.ServiceOrder, target workflow.Status) (bool, error)
}

type WarrantyService struct {
	repo   repositories.WarrantyRepositoryInterface
	now    func() time.Time
	logger *zap.Logger
}

func NewWarrantyService(repo repositories.WarrantyRepositoryInterface, logger *zap.Logger) *WarrantyService {
	return &WarrantyService{repo: repo, now: time.Now, logger: logger}
}

// ActivateIfEligible: гарантия положена только при completed и только позициям с гарантийным сроком.
func (s *WarrantyService) ActivateIfEligible(ctx context.Context, order *entities.ServiceOrder, target workflow.Status) (bool, error) {
	if !workflow.IsCompletionStatus(target) {
		return false, nil
	}

	actorID, _ := utils.GetUserIDFromCtx(ctx)
	startsAt := s.now()

	var warranties []entities.Warranty
	for _, item := range order.Items {
		if item.WarrantyDays <= 0 {
			continue
		}
		warranties = append(warranties, entities.Warranty{
			OrderID:     order.ID,
			ItemID:      item.ID,
			StartsAt:    startsAt,
			ExpiresAt:   startsAt.AddDate(0, 0, item.WarrantyDays),
			ActivatedBy: actorID,
		})
	}
	if len(warranties) == 0 {
		return false, nil
	}

	created, err := s.repo.CreateBatch(ctx, warranties)
	if err != nil {
		return false, err
	}

	s.logger.Info("Гарантия активирована", zap.Uint64("orderID", order.ID), zap.Int("items", created))
	return created > 0, nil
}
