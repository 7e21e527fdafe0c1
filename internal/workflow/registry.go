package workflow

var (
	stepPending = FlowStep{
		Status:      StatusPending,
		Label:       "Ожидает",
		Description: "Заявка создана и ожидает планирования",
		Icon:        "clock",
	}
	stepScheduled = FlowStep{
		Status:      StatusScheduled,
		Label:       "Запланирована",
		Description: "Визит техника назначен",
		Icon:        "calendar",
	}
	stepOnTheWay = FlowStep{
		Status:      StatusOnTheWay,
		Label:       "Техник в пути",
		Description: "Техник выехал к клиенту",
		Icon:        "truck",
	}
	stepInProgress = FlowStep{
		Status:      StatusInProgress,
		Label:       "В работе",
		Description: "Выполняется ремонт",
		Icon:        "wrench",
	}
	stepCollected = FlowStep{
		Status:      StatusCollected,
		Label:       "Забрано",
		Description: "Оборудование забрано для ремонта",
		Icon:        "package",
	}
	stepCollectedForDiagnosis = FlowStep{
		Status:      StatusCollectedForDiagnosis,
		Label:       "Забрано на диагностику",
		Description: "Оборудование забрано для диагностики",
		Icon:        "package-search",
	}
	stepAtWorkshop = FlowStep{
		Status:      StatusAtWorkshop,
		Label:       "В мастерской",
		Description: "Оборудование находится в мастерской",
		Icon:        "warehouse",
	}
	stepDiagnosisCompleted = FlowStep{
		Status:      StatusDiagnosisCompleted,
		Label:       "Диагностика завершена",
		Description: "Неисправность определена",
		Icon:        "stethoscope",
	}
	stepQuoteSent = FlowStep{
		Status:      StatusQuoteSent,
		Label:       "Смета отправлена",
		Description: "Клиенту отправлена смета на ремонт",
		Icon:        "file-text",
	}
	stepQuoteApproved = FlowStep{
		Status:      StatusQuoteApproved,
		Label:       "Смета согласована",
		Description: "Клиент согласовал смету",
		Icon:        "file-check",
	}
	stepReadyForDelivery = FlowStep{
		Status:      StatusReadyForDelivery,
		Label:       "Готово к выдаче",
		Description: "Ремонт завершён, оборудование готово к доставке",
		Icon:        "box",
	}
	stepCollectedForDelivery = FlowStep{
		Status:      StatusCollectedForDelivery,
		Label:       "Забрано для доставки",
		Description: "Оборудование передано на доставку",
		Icon:        "package-check",
	}
	stepOnTheWayToDeliver = FlowStep{
		Status:      StatusOnTheWayToDeliver,
		Label:       "Доставляется",
		Description: "Оборудование в пути к клиенту",
		Icon:        "truck-delivery",
	}
	stepDelivered = FlowStep{
		Status:      StatusDelivered,
		Label:       "Доставлено",
		Description: "Оборудование передано клиенту",
		Icon:        "home",
	}
	stepPaymentPending = FlowStep{
		Status:      StatusPaymentPending,
		Label:       "Ожидает оплаты",
		Description: "Ожидается оплата от клиента",
		Icon:        "credit-card",
	}
	stepCompleted = FlowStep{
		Status:      StatusCompleted,
		Label:       "Завершена",
		Description: "Заявка полностью выполнена",
		Icon:        "check-circle",
	}
)

// flows - единственная таблица потоков. Заменяет разбросанные по коду списки допустимых статусов.
var flows = map[AttendanceType]Flow{
	AttendanceOnSite: newFlow(AttendanceOnSite,
		stepPending,
		stepScheduled,
		stepOnTheWay,
		stepInProgress,
		stepCompleted,
	),
	AttendancePickupForRepair: newFlow(AttendancePickupForRepair,
		stepPending,
		stepScheduled,
		stepOnTheWay,
		stepCollected,
		stepAtWorkshop,
		stepInProgress,
		stepReadyForDelivery,
		stepCollectedForDelivery,
		stepOnTheWayToDeliver,
		stepDelivered,
		stepPaymentPending,
		stepCompleted,
	),
	AttendancePickupForDiagnosis: newFlow(AttendancePickupForDiagnosis,
		stepPending,
		stepScheduled,
		stepOnTheWay,
		stepCollectedForDiagnosis,
		stepAtWorkshop,
		stepDiagnosisCompleted,
		stepQuoteSent,
		stepQuoteApproved,
		stepInProgress,
		stepReadyForDelivery,
		stepOnTheWayToDeliver,
		stepDelivered,
		stepPaymentPending,
		stepCompleted,
	),
}

// FlowFor возвращает поток для способа обслуживания. Никогда не падает:
// для неизвестного типа возвращается поток on_site.
// TODO: сделать fallback настраиваемым (строгий режим с отказом), когда продукт определится с неизвестными типами.
func FlowFor(t AttendanceType) Flow {
	if f, ok := flows[t]; ok {
		return f
	}
	return flows[AttendanceOnSite]
}

// Known сообщает, есть ли для типа собственный поток (false значит, что FlowFor применит fallback).
func Known(t AttendanceType) bool {
	_, ok := flows[t]
	return ok
}

// ResolveAttendance выбирает способ обслуживания для заявки с несколькими единицами оборудования:
// сначала тип самой заявки, затем первый известный тип позиции. ok=false означает fallback.
func ResolveAttendance(order AttendanceType, items ...AttendanceType) (AttendanceType, bool) {
	if Known(order) {
		return order, true
	}
	for _, it := range items {
		if Known(it) {
			return it, true
		}
	}
	return AttendanceOnSite, false
}

// StatusLabel - подпись статуса для журнала. Статус ищется во всех потоках.
func StatusLabel(s Status) string {
	if s == StatusCancelled {
		return "Отменена"
	}
	for _, at := range AttendanceTypes {
		if step, ok := flows[at].Step(s); ok {
			return step.Label
		}
	}
	return string(s)
}

// StatusIcon - иконка шага или пустая строка для статусов вне потоков.
func StatusIcon(s Status) string {
	if s == StatusCancelled {
		return "x-circle"
	}
	for _, at := range AttendanceTypes {
		if step, ok := flows[at].Step(s); ok {
			return step.Icon
		}
	}
	return ""
}
