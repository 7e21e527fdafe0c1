package websocket

import "time"

// Envelope - конверт сообщения: по Type фронтенд выбирает обработчик.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	MessageStatusChanged  = "order_status_changed"
	MessageStatusReverted = "order_status_reverted"
)

// StatusPayload - смена статуса заявки для живой ленты.
type StatusPayload struct {
	OrderID    uint64    `json:"orderId"`
	ActorID    uint64    `json:"actorId"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	FromLabel  string    `json:"fromLabel"`
	ToLabel    string    `json:"toLabel"`
	Icon       string    `json:"icon"`
	Comment    string    `json:"comment,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
