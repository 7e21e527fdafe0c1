package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"service-order/internal/entities"
	"service-order/internal/workflow"
	"service-order/pkg/metrics"
)

const (
	HookCheckout     = "checkout"
	HookCheckin      = "checkin"
	HookPaymentStage = "payment_stage"
	HookWarranty     = "warranty"
	HookRating       = "rating"
	HookNotification = "notification"
)

// TransitionHooks - внешние сервисы, которые вызываются после сохранения перехода.
type TransitionHooks struct {
	Payment       PaymentStageResolver
	Warranty      WarrantyActivator
	Checkin       CheckinService
	Rating        RatingRequester
	Notifications NotificationSink
}

func leavesInProgress(t CommittedTransition) bool {
	return t.From == workflow.StatusInProgress && t.To != workflow.StatusInProgress
}

func entersInProgress(t CommittedTransition) bool {
	return t.To == workflow.StatusInProgress && t.From != workflow.StatusInProgress
}

func isCompletion(t CommittedTransition) bool {
	return workflow.IsCompletionStatus(t.To)
}

func checkoutHook(h TransitionHooks) Hook {
	return Hook{
		Name:    HookCheckout,
		Applies: leavesInProgress,
		Run: func(ctx context.Context, t CommittedTransition) error {
			return h.Checkin.Checkout(ctx, t.Order.ID, t.ActorID)
		},
	}
}

func notificationHook(h TransitionHooks) Hook {
	return Hook{
		Name: HookNotification,
		Run: func(ctx context.Context, t CommittedTransition) error {
			n := entities.Notification{
				OrderID:      t.Order.ID,
				ActorID:      t.ActorID,
				TechnicianID: t.Order.TechnicianID,
				Kind:         string(t.Kind),
				FromStatus:   t.From,
				ToStatus:     t.To,
			}
			if t.Notes != "" {
				n.Notes.SetValid(t.Notes)
			}
			if t.Reason != "" {
				n.Reason.SetValid(t.Reason)
			}
			return h.Notifications.Record(ctx, n)
		},
	}
}

// NewAdvancePipeline собирает хуки перехода вперёд в фиксированном порядке.
func NewAdvancePipeline(h TransitionHooks, timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) *SideEffectPipeline {
	return NewSideEffectPipeline(timeout, m, logger,
		checkoutHook(h),
		Hook{
			Name:    HookCheckin,
			Applies: entersInProgress,
			Run: func(ctx context.Context, t CommittedTransition) error {
				return h.Checkin.Checkin(ctx, t.Order.ID, t.ActorID)
			},
		},
		Hook{
			Name: HookPaymentStage,
			Run: func(ctx context.Context, t CommittedTransition) error {
				_, err := h.Payment.Resolve(ctx, t.Order, t.To)
				return err
			},
		},
		Hook{
			Name:    HookWarranty,
			Applies: isCompletion,
			Run: func(ctx context.Context, t CommittedTransition) error {
				activated, err := h.Warranty.ActivateIfEligible(ctx, t.Order, t.To)
				if err != nil {
					return fmt.Errorf("активация гарантии: %w", err)
				}
				if !activated {
					logger.Debug("Гарантия не активирована: нет позиций с гарантийным сроком", zap.Uint64("orderID", t.Order.ID))
				}
				return nil
			},
		},
		Hook{
			Name:    HookRating,
			Applies: isCompletion,
			Run: func(ctx context.Context, t CommittedTransition) error {
				return h.Rating.Request(ctx, t.Order.ID)
			},
		},
		notificationHook(h),
	)
}

// NewRevertPipeline - узкий набор для отката: выход из работы и запись в журнал с причиной.
func NewRevertPipeline(h TransitionHooks, timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) *SideEffectPipeline {
	return NewSideEffectPipeline(timeout, m, logger,
		checkoutHook(h),
		notificationHook(h),
	)
}
