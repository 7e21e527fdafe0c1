// Файл: internal/services/notification_service.go
package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"service-order/internal/entities"
	"service-order/internal/events"
	"service-order/internal/repositories"
	"service-order/pkg/eventbus"
)

// NotificationSink записывает событие перехода в журнал.
type NotificationSink interface {
	Record(ctx context.Context, n entities.Notification) error
}

// TransitionNotificationService пишет журнал и публикует событие для слушателей (Telegram).
type TransitionNotificationService struct {
	repo repositories.NotificationRepositoryInterface
	bus  *eventbus.Bus
}

func NewTransitionNotificationService(repo repositories.NotificationRepositoryInterface, bus *eventbus.Bus) *TransitionNotificationService {
	return &TransitionNotificationService{repo: repo, bus: bus}
}

func (s *TransitionNotificationService) Record(ctx context.Context, n entities.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if err := s.repo.Create(ctx, &n); err != nil {
		return err
	}

	occurredAt := n.CreatedAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	switch n.Kind {
	case string(TransitionRevert):
		s.bus.Publish(ctx, events.OrderStatusRevertedEvent{
			NotificationID: n.ID,
			OrderID:        n.OrderID,
			TechnicianID:   n.TechnicianID.Uint64,
			ActorID:        n.ActorID,
			From:           n.FromStatus,
			To:             n.ToStatus,
			Reason:         n.Reason.String,
			OccurredAt:     occurredAt,
		})
	default:
		s.bus.Publish(ctx, events.OrderStatusChangedEvent{
			NotificationID: n.ID,
			OrderID:        n.OrderID,
			TechnicianID:   n.TechnicianID.Uint64,
			ActorID:        n.ActorID,
			From:           n.FromStatus,
			To:             n.ToStatus,
			Notes:          n.Notes.String,
			OccurredAt:     occurredAt,
		})
	}
	return nil
}
