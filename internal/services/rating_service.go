package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"service-order/internal/entities"
	"service-order/internal/events"
	"service-order/internal/repositories"
	"service-order/pkg/eventbus"
)

// RatingRequester запрашивает у клиента оценку. Повторный запрос по той же заявке ничего не делает.
type RatingRequester interface {
	Request(ctx context.Context, orderID uint64) error
}

type RatingService struct {
	repo   repositories.RatingRepositoryInterface
	bus    *eventbus.Bus
	logger *zap.Logger
}

func NewRatingService(repo repositories.RatingRepositoryInterface, bus *eventbus.Bus, logger *zap.Logger) *RatingService {
	return &RatingService{repo: repo, bus: bus, logger: logger}
}

func (s *RatingService) Request(ctx context.Context, orderID uint64) error {
	req := &entities.RatingRequest{OrderID: orderID, Token: uuid.New()}
	created, err := s.repo.Create(ctx, req)
	if err != nil {
		return err
	}
	if !created {
		s.logger.Debug("Оценка по заявке уже запрошена", zap.Uint64("orderID", orderID))
		return nil
	}

	s.bus.Publish(ctx, events.RatingRequestedEvent{OrderID: orderID, Token: req.Token, OccurredAt: time.Now()})
	return nil
}
