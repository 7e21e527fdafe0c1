package dto

// HistoryReportRowDTO - строка выгрузки истории статусов заявки.
type HistoryReportRowDTO struct {
	Number     int    `json:"number"`
	OrderID    uint64 `json:"order_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	EventType  string `json:"event_type"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	ActorID    uint64 `json:"actor_id"`
	Comment    string `json:"comment"`
	Actions    string `json:"actions"`
	SkipReason string `json:"skip_reason"`
}
