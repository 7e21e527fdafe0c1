package events

import (
	"time"

	"github.com/google/uuid"

	"service-order/internal/workflow"
)

const (
	OrderStatusChanged   = "order.status.changed"
	OrderStatusReverted  = "order.status.reverted"
	OrderRatingRequested = "order.rating.requested"
)

// OrderStatusChangedEvent возникает после сохранения перехода вперёд.
type OrderStatusChangedEvent struct {
	NotificationID uuid.UUID
	OrderID        uint64
	TechnicianID   uint64
	ActorID        uint64
	From           workflow.Status
	To             workflow.Status
	Notes          string
	OccurredAt     time.Time
}

func (e OrderStatusChangedEvent) Name() string { return OrderStatusChanged }

// OrderStatusRevertedEvent - откат на шаг назад, всегда с причиной.
type OrderStatusRevertedEvent struct {
	NotificationID uuid.UUID
	OrderID        uint64
	TechnicianID   uint64
	ActorID        uint64
	From           workflow.Status
	To             workflow.Status
	Reason         string
	OccurredAt     time.Time
}

func (e OrderStatusRevertedEvent) Name() string { return OrderStatusReverted }

type RatingRequestedEvent struct {
	OrderID    uint64
	Token      uuid.UUID
	OccurredAt time.Time
}

func (e RatingRequestedEvent) Name() string { return OrderRatingRequested }
