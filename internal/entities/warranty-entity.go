package entities

import "time"

type Warranty struct {
	ID          uint64    `db:"id"`
	OrderID     uint64    `db:"order_id"`
	ItemID      uint64    `db:"item_id"`
	StartsAt    time.Time `db:"starts_at"`
	ExpiresAt   time.Time `db:"expires_at"`
	ActivatedBy uint64    `db:"activated_by"`
}
