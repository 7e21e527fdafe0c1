package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"service-order/internal/workflow"
)

// PaymentStageConfig - настроенный этап оплаты для статуса.
type PaymentStageConfig struct {
	ID             uint64                  `db:"id"`
	AttendanceType workflow.AttendanceType `db:"attendance_type"`
	Status         workflow.Status         `db:"status"`
	StageName      string                  `db:"stage_name"`
	Percentage     float64                 `db:"percentage"`
	IsActive       bool                    `db:"is_active"`
}

// PaymentStageRecord - отметка о том, что этап оплаты подтверждён при переходе.
type PaymentStageRecord struct {
	ID          uint64          `db:"id"`
	OrderID     uint64          `db:"order_id"`
	ConfigID    uint64          `db:"config_id"`
	Status      workflow.Status `db:"status"`
	StageName   string          `db:"stage_name"`
	Percentage  float64         `db:"percentage"`
	ConfirmedBy null.Uint64     `db:"confirmed_by"`
	CreatedAt   time.Time       `db:"created_at"`
}

// PaymentStageOutcome - результат разрешения этапа оплаты.
type PaymentStageOutcome struct {
	Config   PaymentStageConfig
	Recorded bool // false, если этап уже был подтверждён ранее
}
