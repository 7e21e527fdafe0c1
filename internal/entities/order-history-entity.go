package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"

	"service-order/internal/workflow"
)

const (
	HistoryEventStatusChange = "STATUS_CHANGE"
	HistoryEventStatusRevert = "STATUS_REVERT"
)

type OrderHistory struct {
	ID         uint64            `db:"id"`
	OrderID    uint64            `db:"order_id"`
	UserID     uint64            `db:"user_id"`
	EventType  string            `db:"event_type"`
	OldValue   null.String       `db:"old_value"`
	NewValue   null.String       `db:"new_value"`
	Comment    null.String       `db:"comment"`
	Actions    map[string]string `db:"actions"`
	SkipReason null.String       `db:"skip_reason"`
	TxID       *uuid.UUID        `db:"tx_id"`
	CreatedAt  time.Time         `db:"created_at"`
}

// StatusChange - атомарная смена статуса: применяется только если текущий статус равен Expected.
type StatusChange struct {
	OrderID    uint64
	Expected   workflow.Status
	New        workflow.Status
	ActorID    uint64
	EventType  string
	Comment    string
	Actions    map[string]string
	SkipReason string
	TxID       uuid.UUID
}
