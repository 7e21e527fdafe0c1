package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"service-order/internal/entities"
)

func TestReportService_GetHistoryReport(t *testing.T) {
	at := time.Date(2026, 1, 15, 14, 5, 0, 0, time.UTC)
	repo := &fakeHistoryRepo{records: []entities.OrderHistory{
		{
			OrderID: 3, UserID: 9, EventType: entities.HistoryEventStatusChange,
			OldValue: null.StringFrom("pending"), NewValue: null.StringFrom("scheduled"),
			Actions:   map[string]string{"b": "2", "a": "1"},
			CreatedAt: at,
		},
		{
			OrderID: 3, UserID: 9, EventType: entities.HistoryEventStatusRevert,
			OldValue: null.StringFrom("scheduled"), NewValue: null.StringFrom("pending"),
			Comment:   null.StringFrom("перенос"),
			CreatedAt: at.Add(time.Hour),
		},
	}}

	rows, err := NewReportService(repo, zap.NewNop()).GetHistoryReport(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Number)
	assert.Equal(t, "15.01.2026", rows[0].Date)
	assert.Equal(t, "14:05", rows[0].Time)
	assert.Equal(t, "Смена статуса", rows[0].EventType)
	assert.Equal(t, "Ожидает", rows[0].FromStatus)
	assert.Equal(t, "Запланирована", rows[0].ToStatus)
	assert.Equal(t, "a: 1; b: 2", rows[0].Actions)

	assert.Equal(t, "Откат статуса", rows[1].EventType)
	assert.Equal(t, "перенос", rows[1].Comment)
}
