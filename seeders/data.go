package seeders

import (
	"service-order/internal/entities"
	"service-order/internal/workflow"
)

var techniciansData = []struct {
	FullName       string
	TelegramChatID *int64
}{
	{FullName: "Иванов Сергей"},
	{FullName: "Каримов Далер"},
	{FullName: "Петрова Анна"},
}

// Обязательные действия по умолчанию. Ключ конфигурации: (from, to, attendance_type).
var requiredActionsData = []entities.RequiredActionConfig{
	{
		FromStatus: workflow.StatusOnTheWay, ToStatus: workflow.StatusInProgress,
		AttendanceType: workflow.AttendanceOnSite,
		Title:          "Начало работ на объекте",
		AllowSkip:      true,
		Actions: []entities.RequiredAction{
			{Key: "photo_before", Label: "Фото оборудования до начала работ", Type: "photo", Required: true},
			{Key: "client_present", Label: "Клиент присутствует", Type: "checkbox", Required: false},
		},
	},
	{
		FromStatus: workflow.StatusInProgress, ToStatus: workflow.StatusCompleted,
		AttendanceType: workflow.AttendanceOnSite,
		Title:          "Завершение работ",
		Actions: []entities.RequiredAction{
			{Key: "photo_after", Label: "Фото после ремонта", Type: "photo", Required: true},
			{Key: "client_signature", Label: "Подпись клиента", Type: "signature", Required: true},
			{Key: "work_summary", Label: "Описание выполненных работ", Type: "text", Required: false},
		},
	},
	{
		FromStatus: workflow.StatusOnTheWay, ToStatus: workflow.StatusCollected,
		AttendanceType: workflow.AttendancePickupForRepair,
		Title:          "Приём оборудования у клиента",
		Actions: []entities.RequiredAction{
			{Key: "photo_condition", Label: "Фото состояния оборудования", Type: "photo", Required: true},
			{Key: "serial_number", Label: "Серийный номер", Type: "text", Required: true},
		},
	},
	{
		FromStatus: workflow.StatusOnTheWay, ToStatus: workflow.StatusCollectedForDiagnosis,
		AttendanceType: workflow.AttendancePickupForDiagnosis,
		Title:          "Приём оборудования на диагностику",
		AllowSkip:      true,
		Actions: []entities.RequiredAction{
			{Key: "photo_condition", Label: "Фото состояния оборудования", Type: "photo", Required: true},
			{Key: "complaint", Label: "Со слов клиента", Type: "text", Required: false},
		},
	},
	{
		FromStatus: workflow.StatusDiagnosisCompleted, ToStatus: workflow.StatusQuoteSent,
		AttendanceType: workflow.AttendancePickupForDiagnosis,
		Title:          "Смета для клиента",
		Actions: []entities.RequiredAction{
			{Key: "quote_amount", Label: "Сумма сметы", Type: "number", Required: true},
		},
	},
	{
		FromStatus: workflow.StatusOnTheWayToDeliver, ToStatus: workflow.StatusDelivered,
		AttendanceType: workflow.AttendancePickupForRepair,
		Title:          "Передача оборудования клиенту",
		Actions: []entities.RequiredAction{
			{Key: "client_signature", Label: "Подпись клиента", Type: "signature", Required: true},
		},
	},
}

// Этапы оплаты. Сумма процентов по каждому способу обслуживания равна 100.
var paymentStagesData = []entities.PaymentStageConfig{
	{AttendanceType: workflow.AttendanceOnSite, Status: workflow.StatusCompleted, StageName: "Полная оплата", Percentage: 100},

	{AttendanceType: workflow.AttendancePickupForRepair, Status: workflow.StatusCollected, StageName: "Предоплата", Percentage: 30},
	{AttendanceType: workflow.AttendancePickupForRepair, Status: workflow.StatusDelivered, StageName: "Оплата при доставке", Percentage: 50},
	{AttendanceType: workflow.AttendancePickupForRepair, Status: workflow.StatusPaymentPending, StageName: "Окончательный расчёт", Percentage: 20},

	{AttendanceType: workflow.AttendancePickupForDiagnosis, Status: workflow.StatusCollectedForDiagnosis, StageName: "Оплата диагностики", Percentage: 10},
	{AttendanceType: workflow.AttendancePickupForDiagnosis, Status: workflow.StatusDelivered, StageName: "Оплата ремонта", Percentage: 70},
	{AttendanceType: workflow.AttendancePickupForDiagnosis, Status: workflow.StatusPaymentPending, StageName: "Окончательный расчёт", Percentage: 20},
}
