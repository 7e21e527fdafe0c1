package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"service-order/internal/entities"
	"service-order/internal/workflow"
	"service-order/pkg/metrics"
)

type TransitionKind string

const (
	TransitionAdvance TransitionKind = "advance"
	TransitionRevert  TransitionKind = "revert"
)

// CommittedTransition - уже сохранённый переход, который видят побочные действия.
type CommittedTransition struct {
	Kind    TransitionKind
	Order   *entities.ServiceOrder // статус уже обновлён
	From    workflow.Status
	To      workflow.Status
	ActorID uint64
	Notes   string
	Reason  string
}

// SideEffectError - сбой одного побочного действия. Не отменяет переход.
type SideEffectError struct {
	Hook    string
	Message string
}

func (e SideEffectError) Error() string {
	return fmt.Sprintf("%s: %s", e.Hook, e.Message)
}

// Hook - одно побочное действие. Applies == nil означает "всегда".
type Hook struct {
	Name    string
	Applies func(t CommittedTransition) bool
	Run     func(ctx context.Context, t CommittedTransition) error
}

// SideEffectPipeline выполняет хуки по порядку. Каждый хук вызывается независимо от сбоев предыдущих.
type SideEffectPipeline struct {
	hooks   []Hook
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewSideEffectPipeline(timeout time.Duration, m *metrics.Metrics, logger *zap.Logger, hooks ...Hook) *SideEffectPipeline {
	return &SideEffectPipeline{hooks: hooks, timeout: timeout, metrics: m, logger: logger}
}

// HookNames - порядок хуков, для логов и тестов.
func (p *SideEffectPipeline) HookNames() []string {
	names := make([]string, 0, len(p.hooks))
	for _, h := range p.hooks {
		names = append(names, h.Name)
	}
	return names
}

// Run выполняет применимые хуки и собирает их ошибки.
func (p *SideEffectPipeline) Run(ctx context.Context, t CommittedTransition) []SideEffectError {
	var failures []SideEffectError
	for _, hook := range p.hooks {
		if hook.Applies != nil && !hook.Applies(t) {
			continue
		}

		start := time.Now()
		err := p.runHook(ctx, hook, t)
		if p.metrics != nil {
			p.metrics.RecordSideEffect(hook.Name, err != nil, time.Since(start))
		}
		if err == nil {
			continue
		}

		p.logger.Warn("Побочное действие перехода завершилось ошибкой",
			zap.String("hook", hook.Name),
			zap.Uint64("orderID", t.Order.ID),
			zap.String("from", t.From.String()),
			zap.String("to", t.To.String()),
			zap.Error(err),
		)
		failures = append(failures, SideEffectError{Hook: hook.Name, Message: err.Error()})
	}
	return failures
}

// runHook ограничивает хук таймаутом и превращает панику в ошибку.
// Хук, не уважающий контекст, продолжит работу в фоне, но результат уже не ждём.
func (p *SideEffectPipeline) runHook(ctx context.Context, hook Hook, t CommittedTransition) error {
	hookCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("паника: %v", r)
			}
		}()
		done <- hook.Run(hookCtx, t)
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("превышено время ожидания %s", p.timeout)
		}
		return err
	case <-hookCtx.Done():
		return fmt.Errorf("превышено время ожидания %s", p.timeout)
	}
}
