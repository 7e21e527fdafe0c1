package listeners

import (
	"context"

	"go.uber.org/zap"

	"service-order/internal/events"
	"service-order/internal/workflow"
	"service-order/pkg/eventbus"
	"service-order/pkg/websocket"
)

// LiveFeedListener транслирует смены статусов в WebSocket-ленту.
type LiveFeedListener struct {
	hub    *websocket.Hub
	logger *zap.Logger
}

func NewLiveFeedListener(hub *websocket.Hub, logger *zap.Logger) *LiveFeedListener {
	return &LiveFeedListener{hub: hub, logger: logger}
}

func (l *LiveFeedListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.OrderStatusChanged, l.handle)
	bus.Subscribe(events.OrderStatusReverted, l.handle)
}

func (l *LiveFeedListener) handle(_ context.Context, event eventbus.Event) error {
	var (
		messageType string
		payload     websocket.StatusPayload
	)

	switch e := event.(type) {
	case events.OrderStatusChangedEvent:
		messageType = websocket.MessageStatusChanged
		payload = statusPayload(e.OrderID, e.ActorID, e.From, e.To, e.Notes)
		payload.Icon = workflow.StatusIcon(e.To)
		payload.OccurredAt = e.OccurredAt
	case events.OrderStatusRevertedEvent:
		messageType = websocket.MessageStatusReverted
		payload = statusPayload(e.OrderID, e.ActorID, e.From, e.To, e.Reason)
		payload.Icon = "rotate-ccw"
		payload.OccurredAt = e.OccurredAt
	default:
		return nil
	}

	delivered, err := l.hub.Publish(payload.OrderID, messageType, payload)
	if err != nil {
		return err
	}
	l.logger.Debug("Событие отправлено в ленту", zap.Uint64("orderID", payload.OrderID), zap.Int("delivered", delivered))
	return nil
}

func statusPayload(orderID, actorID uint64, from, to workflow.Status, comment string) websocket.StatusPayload {
	return websocket.StatusPayload{
		OrderID:   orderID,
		ActorID:   actorID,
		From:      from.String(),
		To:        to.String(),
		FromLabel: workflow.StatusLabel(from),
		ToLabel:   workflow.StatusLabel(to),
		Comment:   comment,
	}
}
