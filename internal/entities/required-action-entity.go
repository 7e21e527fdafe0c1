package entities

import "service-order/internal/workflow"

// RequiredAction - одно действие, которое пользователь должен выполнить до перехода.
type RequiredAction struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Type     string `json:"type"` // text, number, photo, signature, checkbox
	Required bool   `json:"required"`
}

// RequiredActionConfig привязан к тройке (from, to, attendance type).
type RequiredActionConfig struct {
	ID             uint64                  `db:"id"`
	FromStatus     workflow.Status         `db:"from_status"`
	ToStatus       workflow.Status         `db:"to_status"`
	AttendanceType workflow.AttendanceType `db:"attendance_type"`
	Title          string                  `db:"title"`
	AllowSkip      bool                    `db:"allow_skip"`
	Actions        []RequiredAction        `db:"actions"`
	IsActive       bool                    `db:"is_active"`
}

// HasRequired - есть хотя бы одно обязательное действие.
func (c *RequiredActionConfig) HasRequired() bool {
	for _, a := range c.Actions {
		if a.Required {
			return true
		}
	}
	return false
}

// MissingActions возвращает ключи обязательных действий без значения.
func (c *RequiredActionConfig) MissingActions(supplied map[string]string) []string {
	var missing []string
	for _, a := range c.Actions {
		if !a.Required {
			continue
		}
		if v, ok := supplied[a.Key]; !ok || v == "" {
			missing = append(missing, a.Key)
		}
	}
	return missing
}
