package entities

import "time"

const (
	CheckinKindIn  = "check_in"
	CheckinKindOut = "check_out"
)

// TechnicianCheckin - отметка начала или окончания работы техника на заявке.
type TechnicianCheckin struct {
	ID           uint64    `db:"id"`
	OrderID      uint64    `db:"order_id"`
	TechnicianID uint64    `db:"technician_id"`
	Kind         string    `db:"kind"`
	CreatedAt    time.Time `db:"created_at"`
}
