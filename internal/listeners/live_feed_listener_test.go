package listeners

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"service-order/internal/events"
	"service-order/internal/workflow"
	"service-order/pkg/eventbus"
	"service-order/pkg/websocket"
)

func TestLiveFeedListener_PublishesToHub(t *testing.T) {
	hub := websocket.NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	// клиент без соединения: достаточно буфера Send
	client := websocket.NewClient(hub, nil, 1, 12)
	require.NoError(t, hub.Register(client))

	bus := eventbus.New(zap.NewNop())
	NewLiveFeedListener(hub, zap.NewNop()).Register(bus)

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	bus.Publish(context.Background(), events.OrderStatusChangedEvent{
		OrderID: 12, ActorID: 3, From: workflow.StatusScheduled, To: workflow.StatusOnTheWay, OccurredAt: at,
	})
	bus.Wait()
	bus.Publish(context.Background(), events.OrderStatusRevertedEvent{
		OrderID: 12, ActorID: 3, From: workflow.StatusOnTheWay, To: workflow.StatusScheduled, Reason: "ошибка", OccurredAt: at,
	})
	bus.Wait()

	var changed, reverted struct {
		Type    string                  `json:"type"`
		Payload websocket.StatusPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(<-client.Send, &changed))
	require.NoError(t, json.Unmarshal(<-client.Send, &reverted))

	assert.Equal(t, websocket.MessageStatusChanged, changed.Type)
	assert.Equal(t, "Техник в пути", changed.Payload.ToLabel)
	assert.Equal(t, uint64(3), changed.Payload.ActorID)

	assert.Equal(t, websocket.MessageStatusReverted, reverted.Type)
	assert.Equal(t, "rotate-ccw", reverted.Payload.Icon)
	assert.Equal(t, "ошибка", reverted.Payload.Comment)
}
