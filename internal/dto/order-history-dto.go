package dto

type TimelineEventDTO struct {
	ID         uint64            `json:"id"`
	EventType  string            `json:"event_type"`
	Icon       string            `json:"icon"`
	Lines      []string          `json:"lines"`
	ActorID    uint64            `json:"actor_id"`
	OldStatus  string            `json:"old_status,omitempty"`
	NewStatus  string            `json:"new_status,omitempty"`
	Comment    string            `json:"comment,omitempty"`
	Actions    map[string]string `json:"actions,omitempty"`
	SkipReason string            `json:"skip_reason,omitempty"`
	CreatedAt  string            `json:"created_at"`
}
