package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"service-order/internal/workflow"
)

// ServiceOrder - заявка на ремонт. Статус меняется только через сервис переходов.
type ServiceOrder struct {
	ID             uint64                  `db:"id"`
	AttendanceType workflow.AttendanceType `db:"attendance_type"`
	Status         workflow.Status         `db:"status"`
	TechnicianID   null.Uint64             `db:"technician_id"`
	ClientName     string                  `db:"client_name"`
	Items          []ServiceItem           `db:"-"`
	CreatedAt      time.Time               `db:"created_at"`
	UpdatedAt      time.Time               `db:"updated_at"`
}

// ServiceItem - единица оборудования в заявке. Для мульти-заявок у каждой свой способ обслуживания.
type ServiceItem struct {
	ID             uint64                  `db:"id"`
	OrderID        uint64                  `db:"order_id"`
	AttendanceType workflow.AttendanceType `db:"attendance_type"`
	Equipment      string                  `db:"equipment"`
	WarrantyDays   int                     `db:"warranty_days"`
}

// ItemAttendanceTypes возвращает способы обслуживания позиций в порядке их добавления.
func (o *ServiceOrder) ItemAttendanceTypes() []workflow.AttendanceType {
	types := make([]workflow.AttendanceType, 0, len(o.Items))
	for _, item := range o.Items {
		types = append(types, item.AttendanceType)
	}
	return types
}

// Technician - получатель уведомлений о смене статуса.
type Technician struct {
	ID             uint64     `db:"id"`
	FullName       string     `db:"full_name"`
	TelegramChatID null.Int64 `db:"telegram_chat_id"`
}
