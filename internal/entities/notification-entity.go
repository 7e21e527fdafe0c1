package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"

	"service-order/internal/workflow"
)

// Notification - запись журнала о переходе, из неё строятся уведомления.
type Notification struct {
	ID           uuid.UUID       `db:"id"`
	OrderID      uint64          `db:"order_id"`
	ActorID      uint64          `db:"actor_id"`
	TechnicianID null.Uint64     `db:"technician_id"`
	Kind         string          `db:"kind"` // advance, revert
	FromStatus   workflow.Status `db:"from_status"`
	ToStatus     workflow.Status `db:"to_status"`
	Notes        null.String     `db:"notes"`
	Reason       null.String     `db:"reason"`
	CreatedAt    time.Time       `db:"created_at"`
}
