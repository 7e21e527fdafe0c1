package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowFor_AllAttendanceTypesHaveUniqueSteps(t *testing.T) {
	for _, at := range AttendanceTypes {
		t.Run(at.String(), func(t *testing.T) {
			flow := FlowFor(at)
			require.NotZero(t, flow.Len(), "поток не должен быть пустым")
			assert.Equal(t, at, flow.AttendanceType())

			seen := make(map[Status]bool)
			for i, step := range flow.Steps() {
				assert.False(t, seen[step.Status], "статус %s повторяется", step.Status)
				seen[step.Status] = true
				assert.Equal(t, i, flow.IndexOf(step.Status))
				assert.NotEmpty(t, step.Label)
				assert.NotEmpty(t, step.Icon)
			}
			assert.Equal(t, StatusPending, flow.First())
			assert.Equal(t, StatusCompleted, flow.Last())
			assert.False(t, flow.Contains(StatusCancelled))
			assert.True(t, flow.Accepts(StatusCancelled))
		})
	}
}

func TestFlowFor_UnknownFallsBackToOnSite(t *testing.T) {
	flow := FlowFor(AttendanceType("drone_delivery"))
	assert.Equal(t, AttendanceOnSite, flow.AttendanceType())
	assert.False(t, Known("drone_delivery"))
	assert.True(t, Known(AttendancePickupForRepair))
}

func TestFlow_StepsReturnsCopy(t *testing.T) {
	flow := FlowFor(AttendanceOnSite)
	steps := flow.Steps()
	steps[0].Status = "hacked"
	assert.Equal(t, StatusPending, flow.First())
}

func TestResolveAttendance(t *testing.T) {
	at, ok := ResolveAttendance(AttendancePickupForDiagnosis, AttendanceOnSite)
	assert.True(t, ok)
	assert.Equal(t, AttendancePickupForDiagnosis, at)

	at, ok = ResolveAttendance("", "bogus", AttendancePickupForRepair)
	assert.True(t, ok)
	assert.Equal(t, AttendancePickupForRepair, at)

	at, ok = ResolveAttendance("bogus")
	assert.False(t, ok)
	assert.Equal(t, AttendanceOnSite, at)
}

func TestFlow_Query(t *testing.T) {
	flow := FlowFor(AttendanceOnSite)

	next, ok := flow.Next(StatusScheduled)
	require.True(t, ok)
	assert.Equal(t, StatusOnTheWay, next)

	_, ok = flow.Next(StatusCompleted)
	assert.False(t, ok, "у последнего шага нет следующего")

	_, ok = flow.Next(StatusCollected)
	assert.False(t, ok, "статус вне потока")

	prev, ok := flow.Previous(StatusScheduled)
	require.True(t, ok)
	assert.Equal(t, StatusPending, prev)

	_, ok = flow.Previous(StatusPending)
	assert.False(t, ok)

	assert.Equal(t, -1, flow.IndexOf(StatusAtWorkshop))
}

func TestFlow_Progress(t *testing.T) {
	t.Run("five step flow at index two is fifty percent", func(t *testing.T) {
		flow := FlowFor(AttendanceOnSite)
		require.Equal(t, 5, flow.Len())
		assert.InDelta(t, 50.0, flow.Progress(StatusOnTheWay), 0.0001)
	})

	t.Run("bounds hold for every flow and status", func(t *testing.T) {
		all := []Status{
			StatusPending, StatusScheduled, StatusOnTheWay, StatusCollected, StatusCollectedForDiagnosis,
			StatusAtWorkshop, StatusDiagnosisCompleted, StatusQuoteSent, StatusQuoteApproved, StatusInProgress,
			StatusReadyForDelivery, StatusCollectedForDelivery, StatusOnTheWayToDeliver, StatusDelivered,
			StatusPaymentPending, StatusCompleted, StatusCancelled, "unknown",
		}
		for _, at := range AttendanceTypes {
			flow := FlowFor(at)
			assert.Equal(t, 0.0, flow.Progress(flow.First()))
			assert.Equal(t, 100.0, flow.Progress(flow.Last()))
			for _, s := range all {
				p := flow.Progress(s)
				assert.GreaterOrEqual(t, p, 0.0)
				assert.LessOrEqual(t, p, 100.0)
			}
		}
	})

	t.Run("absent status is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, FlowFor(AttendanceOnSite).Progress(StatusCancelled))
	})

	t.Run("single step flow is complete", func(t *testing.T) {
		flow := newFlow("single", stepCompleted)
		assert.Equal(t, 100.0, flow.Progress(StatusCompleted))
	})
}

func TestNewFlow_PanicsOnDuplicateStatus(t *testing.T) {
	assert.Panics(t, func() {
		newFlow("broken", stepPending, stepScheduled, stepPending)
	})
}

func TestIsCompletionStatus(t *testing.T) {
	assert.True(t, IsCompletionStatus(StatusCompleted))
	assert.False(t, IsCompletionStatus(StatusCancelled))
	assert.False(t, IsCompletionStatus(StatusDelivered))
}

func TestIsPaymentTrigger(t *testing.T) {
	for _, s := range []Status{StatusCollected, StatusCollectedForDiagnosis, StatusCompleted, StatusDelivered, StatusPaymentPending} {
		assert.True(t, IsPaymentTrigger(s), s)
	}
	assert.False(t, IsPaymentTrigger(StatusDiagnosisCompleted))
	assert.False(t, IsPaymentTrigger(StatusCancelled))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "В мастерской", StatusLabel(StatusAtWorkshop))
	assert.Equal(t, "Отменена", StatusLabel(StatusCancelled))
	assert.Equal(t, "mystery", StatusLabel("mystery"))
	assert.Equal(t, "wrench", StatusIcon(StatusInProgress))
	assert.Empty(t, StatusIcon("mystery"))
}
