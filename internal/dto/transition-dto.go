package dto

import "github.com/aarondl/null/v8"

// AdvanceTransitionDTO - первая фаза перехода вперёд.
type AdvanceTransitionDTO struct {
	OrderID      uint64      `json:"-"`
	TargetStatus string      `json:"target_status" validate:"required,status_code"`
	Notes        null.String `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// CompleteActionsDTO - вторая фаза: переход с выполненными (или пропущенными) обязательными действиями.
type CompleteActionsDTO struct {
	OrderID      uint64            `json:"-"`
	TargetStatus string            `json:"target_status" validate:"required,status_code"`
	Actions      map[string]string `json:"actions"`
	Skipped      bool              `json:"skipped"`
	SkipReason   null.String       `json:"skip_reason,omitempty" validate:"omitempty,max=1000"`
	Notes        null.String       `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// RevertTransitionDTO - откат на один шаг назад. Причина обязательна.
type RevertTransitionDTO struct {
	OrderID uint64 `json:"-"`
	Reason  string `json:"reason" validate:"required,not_blank,max=1000"`
}

type SideEffectErrorDTO struct {
	Hook    string `json:"hook"`
	Message string `json:"message"`
}

type RequiredActionDTO struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type RequiredActionConfigDTO struct {
	ID         uint64              `json:"id"`
	Title      string              `json:"title"`
	FromStatus string              `json:"from_status"`
	ToStatus   string              `json:"to_status"`
	AllowSkip  bool                `json:"allow_skip"`
	Actions    []RequiredActionDTO `json:"actions"`
}

// TransitionResultDTO - итог перехода. Ошибки побочных действий информационные и не отменяют переход.
type TransitionResultDTO struct {
	Success          bool                     `json:"success"`
	OrderID          uint64                   `json:"order_id"`
	PreviousStatus   string                   `json:"previous_status"`
	AppliedStatus    string                   `json:"applied_status,omitempty"`
	Progress         float64                  `json:"progress"`
	ActionRequired   bool                     `json:"action_required"`
	RequiredAction   *RequiredActionConfigDTO `json:"required_action,omitempty"`
	SideEffectErrors []SideEffectErrorDTO     `json:"side_effect_errors"`
}
