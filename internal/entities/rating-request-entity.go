package entities

import (
	"time"

	"github.com/google/uuid"
)

// RatingRequest - запрос оценки у клиента после завершения заявки.
type RatingRequest struct {
	ID        uint64    `db:"id"`
	OrderID   uint64    `db:"order_id"`
	Token     uuid.UUID `db:"token"`
	CreatedAt time.Time `db:"created_at"`
}
