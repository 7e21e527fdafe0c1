package workflow

// AttendanceType - способ обслуживания заявки. Задаётся при создании и определяет поток статусов.
type AttendanceType string

const (
	AttendanceOnSite             AttendanceType = "on_site"
	AttendancePickupForRepair    AttendanceType = "pickup_for_repair"
	AttendancePickupForDiagnosis AttendanceType = "pickup_for_diagnosis"
)

// AttendanceTypes - все известные способы обслуживания.
var AttendanceTypes = []AttendanceType{
	AttendanceOnSite,
	AttendancePickupForRepair,
	AttendancePickupForDiagnosis,
}

func (t AttendanceType) IsValid() bool {
	switch t {
	case AttendanceOnSite, AttendancePickupForRepair, AttendancePickupForDiagnosis:
		return true
	default:
		return false
	}
}

func (t AttendanceType) String() string {
	return string(t)
}

// Status - код статуса заявки (совпадает с кодом в БД).
type Status string

const (
	StatusPending               Status = "pending"
	StatusScheduled             Status = "scheduled"
	StatusOnTheWay              Status = "on_the_way"
	StatusCollected             Status = "collected"
	StatusCollectedForDiagnosis Status = "collected_for_diagnosis"
	StatusAtWorkshop            Status = "at_workshop"
	StatusDiagnosisCompleted    Status = "diagnosis_completed"
	StatusQuoteSent             Status = "quote_sent"
	StatusQuoteApproved         Status = "quote_approved"
	StatusInProgress            Status = "in_progress"
	StatusReadyForDelivery      Status = "ready_for_delivery"
	StatusCollectedForDelivery  Status = "collected_for_delivery"
	StatusOnTheWayToDeliver     Status = "on_the_way_to_deliver"
	StatusDelivered             Status = "delivered"
	StatusPaymentPending        Status = "payment_pending"
	StatusCompleted             Status = "completed"
	StatusCancelled             Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

// IsTerminal - из completed и cancelled переходы вперёд запрещены.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsCompletionStatus - true только для completed, независимо от потока.
func IsCompletionStatus(s Status) bool {
	return s == StatusCompleted
}

// IsPaymentTrigger - переход в эти статусы фиксирует этап оплаты, если он настроен.
func IsPaymentTrigger(s Status) bool {
	switch s {
	case StatusCollected, StatusCollectedForDiagnosis, StatusCompleted, StatusDelivered, StatusPaymentPending:
		return true
	default:
		return false
	}
}

// FlowStep - один шаг потока. Неизменяемый.
type FlowStep struct {
	Status      Status `json:"status"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Flow - упорядоченная последовательность шагов для одного способа обслуживания.
// Индекс шага задаёт порядок жизненного цикла.
type Flow struct {
	attendance AttendanceType
	steps      []FlowStep
	index      map[Status]int
}

func newFlow(attendance AttendanceType, steps ...FlowStep) Flow {
	index := make(map[Status]int, len(steps))
	for i, step := range steps {
		if _, dup := index[step.Status]; dup {
			panic("workflow: дублирующийся статус " + string(step.Status) + " в потоке " + string(attendance))
		}
		index[step.Status] = i
	}
	return Flow{attendance: attendance, steps: steps, index: index}
}

func (f Flow) AttendanceType() AttendanceType {
	return f.attendance
}

// Steps возвращает копию шагов, чтобы вызывающий не мог изменить таблицу.
func (f Flow) Steps() []FlowStep {
	out := make([]FlowStep, len(f.steps))
	copy(out, f.steps)
	return out
}

func (f Flow) Len() int {
	return len(f.steps)
}

func (f Flow) First() Status {
	if len(f.steps) == 0 {
		return ""
	}
	return f.steps[0].Status
}

func (f Flow) Last() Status {
	if len(f.steps) == 0 {
		return ""
	}
	return f.steps[len(f.steps)-1].Status
}

// Step возвращает шаг по статусу.
func (f Flow) Step(s Status) (FlowStep, bool) {
	i, ok := f.index[s]
	if !ok {
		return FlowStep{}, false
	}
	return f.steps[i], true
}

// Contains - статус является шагом последовательности.
func (f Flow) Contains(s Status) bool {
	_, ok := f.index[s]
	return ok
}

// Accepts - статус допустим для заявки этого потока: шаг последовательности или cancelled.
func (f Flow) Accepts(s Status) bool {
	return s == StatusCancelled || f.Contains(s)
}
