package dto

type FlowStepDTO struct {
	Status      string `json:"status"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Index       int    `json:"index"`
}

type FlowDTO struct {
	AttendanceType string        `json:"attendance_type"`
	Fallback       bool          `json:"fallback"`
	Steps          []FlowStepDTO `json:"steps"`
}

type ProgressDTO struct {
	OrderID        uint64       `json:"order_id"`
	AttendanceType string       `json:"attendance_type"`
	Status         string       `json:"status"`
	Progress       float64      `json:"progress"`
	IsCompleted    bool         `json:"is_completed"`
	Current        *FlowStepDTO `json:"current,omitempty"`
	Next           *FlowStepDTO `json:"next,omitempty"`
	Previous       *FlowStepDTO `json:"previous,omitempty"`
}
