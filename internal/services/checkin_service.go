package services

import (
	"context"

	"service-order/internal/entities"
	"service-order/internal/repositories"
)

// CheckinService отмечает начало и конец работы техника на заявке.
type CheckinService interface {
	Checkin(ctx context.Context, orderID, actorID uint64) error
	Checkout(ctx context.Context, orderID, actorID uint64) error
}

type TechnicianCheckinService struct {
	repo repositories.CheckinRepositoryInterface
}

func NewTechnicianCheckinService(repo repositories.CheckinRepositoryInterface) *TechnicianCheckinService {
	return &TechnicianCheckinService{repo: repo}
}

func (s *TechnicianCheckinService) Checkin(ctx context.Context, orderID, actorID uint64) error {
	return s.repo.Create(ctx, &entities.TechnicianCheckin{OrderID: orderID, TechnicianID: actorID, Kind: entities.CheckinKindIn})
}

func (s *TechnicianCheckinService) Checkout(ctx context.Context, orderID, actorID uint64) error {
	return s.repo.Create(ctx, &entities.TechnicianCheckin{OrderID: orderID, TechnicianID: actorID, Kind: entities.CheckinKindOut})
}
