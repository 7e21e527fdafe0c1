package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"service-order/internal/dto"
	"service-order/internal/entities"
	"service-order/internal/workflow"
	"service-order/pkg/config"
	apperrors "service-order/pkg/errors"
	"service-order/pkg/metrics"
	"service-order/pkg/utils"
)

// OrderStore - хранилище заявок. CompareAndSetStatus применяет смену, только если статус не изменился.
type OrderStore interface {
	FindByID(ctx context.Context, id uint64) (*entities.ServiceOrder, error)
	CompareAndSetStatus(ctx context.Context, change entities.StatusChange) (bool, error)
}

type TransitionServiceInterface interface {
	Advance(ctx context.Context, d dto.AdvanceTransitionDTO) (*dto.TransitionResultDTO, error)
	CompleteRequiredActions(ctx context.Context, d dto.CompleteActionsDTO) (*dto.TransitionResultDTO, error)
	Revert(ctx context.Context, d dto.RevertTransitionDTO) (*dto.TransitionResultDTO, error)
	DescribeFlow(attendance workflow.AttendanceType) dto.FlowDTO
	GetProgress(ctx context.Context, orderID uint64) (*dto.ProgressDTO, error)
	ProgressOf(order *entities.ServiceOrder) float64
}

// errStatusChanged - CAS не применился: статус успели изменить между чтением и записью.
var errStatusChanged = errors.New("статус заявки изменился во время перехода")

type TransitionService struct {
	store           OrderStore
	locker          OrderLocker
	actions         RequiredActionConfigProvider
	advancePipeline *SideEffectPipeline
	revertPipeline  *SideEffectPipeline
	cfg             config.WorkflowConfig
	metrics         *metrics.Metrics
	logger          *zap.Logger
}

func NewTransitionService(
	store OrderStore,
	locker OrderLocker,
	actions RequiredActionConfigProvider,
	advancePipeline *SideEffectPipeline,
	revertPipeline *SideEffectPipeline,
	cfg config.WorkflowConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) TransitionServiceInterface {
	return &TransitionService{
		store:           store,
		locker:          locker,
		actions:         actions,
		advancePipeline: advancePipeline,
		revertPipeline:  revertPipeline,
		cfg:             cfg,
		metrics:         m,
		logger:          logger,
	}
}

// prepareFunc проверяет переход на только что прочитанной заявке.
// Вызывается на каждой попытке, поэтому после конфликта проверка повторяется на свежих данных.
type prepareFunc func(ctx context.Context, order *entities.ServiceOrder, flow workflow.Flow) (target workflow.Status, pending *entities.RequiredActionConfig, err error)

type transitionRequest struct {
	kind       TransitionKind
	orderID    uint64
	actorID    uint64
	notes      string
	reason     string
	actions    map[string]string
	skipReason string
	prepare    prepareFunc
}

func (s *TransitionService) Advance(ctx context.Context, d dto.AdvanceTransitionDTO) (*dto.TransitionResultDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	target := workflow.Status(d.TargetStatus)

	return s.execute(ctx, transitionRequest{
		kind:    TransitionAdvance,
		orderID: d.OrderID,
		actorID: actorID,
		notes:   d.Notes.String,
		prepare: func(ctx context.Context, order *entities.ServiceOrder, flow workflow.Flow) (workflow.Status, *entities.RequiredActionConfig, error) {
			if err := workflow.ValidateAdvance(flow, order.Status, target); err != nil {
				return "", nil, err
			}
			cfg, err := s.lookupRequiredActions(ctx, order.Status, target, flow.AttendanceType())
			if err != nil {
				return "", nil, err
			}
			return target, cfg, nil
		},
	})
}

func (s *TransitionService) CompleteRequiredActions(ctx context.Context, d dto.CompleteActionsDTO) (*dto.TransitionResultDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	target := workflow.Status(d.TargetStatus)
	skipReason := strings.TrimSpace(d.SkipReason.String)

	req := transitionRequest{
		kind:    TransitionAdvance,
		orderID: d.OrderID,
		actorID: actorID,
		notes:   d.Notes.String,
		actions: d.Actions,
		prepare: func(ctx context.Context, order *entities.ServiceOrder, flow workflow.Flow) (workflow.Status, *entities.RequiredActionConfig, error) {
			if err := workflow.ValidateAdvance(flow, order.Status, target); err != nil {
				return "", nil, err
			}
			cfg, err := s.lookupRequiredActions(ctx, order.Status, target, flow.AttendanceType())
			if err != nil {
				return "", nil, err
			}
			if cfg == nil {
				return target, nil, nil
			}
			if d.Skipped {
				if skipReason == "" {
					return "", nil, apperrors.ErrSkipReasonRequired
				}
				if !cfg.AllowSkip {
					return "", nil, apperrors.ErrSkipNotAllowed
				}
				return target, nil, nil
			}
			if missing := cfg.MissingActions(d.Actions); len(missing) > 0 {
				httpErr := apperrors.NewHttpError(http.StatusUnprocessableEntity,
					apperrors.ErrRequiredActionsIncomplete.Error(),
					apperrors.ErrRequiredActionsIncomplete,
					map[string]interface{}{"missing": missing},
				)
				httpErr.Details = map[string][]string{"missing_actions": missing}
				return "", nil, httpErr
			}
			return target, nil, nil
		},
	}
	if d.Skipped {
		req.skipReason = skipReason
	}
	return s.execute(ctx, req)
}

func (s *TransitionService) Revert(ctx context.Context, d dto.RevertTransitionDTO) (*dto.TransitionResultDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(d.Reason)
	if reason == "" {
		return nil, apperrors.ErrRevertReasonRequired
	}

	return s.execute(ctx, transitionRequest{
		kind:    TransitionRevert,
		orderID: d.OrderID,
		actorID: actorID,
		reason:  reason,
		prepare: func(ctx context.Context, order *entities.ServiceOrder, flow workflow.Flow) (workflow.Status, *entities.RequiredActionConfig, error) {
			target, err := workflow.ValidateRevert(flow, order.Status, "")
			return target, nil, err
		},
	})
}

// execute: блокировка -> чтение -> проверка -> CAS с повторами -> побочные действия -> результат.
func (s *TransitionService) execute(ctx context.Context, req transitionRequest) (*dto.TransitionResultDTO, error) {
	start := time.Now()
	outcome := "error"
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordTransition(string(req.kind), outcome, time.Since(start))
		}
	}()

	log := s.logger.With(
		zap.String("kind", string(req.kind)),
		zap.Uint64("orderID", req.orderID),
		zap.Uint64("actorID", req.actorID),
		zap.String("requestID", utils.RequestIDFromCtx(ctx)),
	)

	release, ok, err := s.locker.TryLock(ctx, req.orderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		outcome = "busy"
		log.Info("Заявка уже в процессе смены статуса")
		return nil, apperrors.ErrAlreadyInProgress
	}
	defer release()

	var (
		order   *entities.ServiceOrder
		flow    workflow.Flow
		target  workflow.Status
		pending *entities.RequiredActionConfig
		attempt int
	)
	txID := uuid.New()

	operation := func() error {
		attempt++
		if attempt > 1 {
			if s.metrics != nil {
				s.metrics.PersistenceRetries.Inc()
			}
			log.Info("Повтор перехода после конфликта", zap.Int("attempt", attempt))
		}

		loaded, err := s.load(ctx, req.orderID)
		if err != nil {
			return backoff.Permanent(err)
		}
		loadedFlow := s.flowFor(loaded)

		t, p, err := req.prepare(ctx, loaded, loadedFlow)
		if err != nil {
			return backoff.Permanent(err)
		}
		order, flow, target, pending = loaded, loadedFlow, t, p
		if p != nil {
			return nil
		}

		applied, err := s.compareAndSet(ctx, s.statusChange(req, loaded.Status, t, txID))
		if err != nil {
			return backoff.Permanent(err)
		}
		if !applied {
			return errStatusChanged
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.cfg.ConflictBackoff), s.cfg.ConflictRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		switch {
		case errors.Is(err, errStatusChanged):
			outcome = "conflict"
			log.Warn("Исчерпаны попытки сохранить статус", zap.Int("attempts", attempt))
			return nil, apperrors.ErrPersistenceConflict
		case workflow.IsRejection(err):
			outcome = "rejected"
		case errors.Is(err, apperrors.ErrRequiredActionsIncomplete),
			errors.Is(err, apperrors.ErrSkipReasonRequired),
			errors.Is(err, apperrors.ErrSkipNotAllowed),
			errors.Is(err, apperrors.ErrNotFound):
			outcome = "rejected"
		default:
			log.Error("Переход не выполнен", zap.Error(err))
		}
		return nil, err
	}

	if pending != nil {
		outcome = "action_required"
		return &dto.TransitionResultDTO{
			Success:          false,
			OrderID:          order.ID,
			PreviousStatus:   order.Status.String(),
			Progress:         flow.Progress(order.Status),
			ActionRequired:   true,
			RequiredAction:   requiredActionToDTO(pending),
			SideEffectErrors: []dto.SideEffectErrorDTO{},
		}, nil
	}

	snapshot := *order
	snapshot.AttendanceType = flow.AttendanceType()
	snapshot.Status = target

	pipeline := s.advancePipeline
	if req.kind == TransitionRevert {
		pipeline = s.revertPipeline
	}
	// статус уже сохранён: побочные действия выполняются даже если клиент отключился
	failures := pipeline.Run(context.WithoutCancel(ctx), CommittedTransition{
		Kind:    req.kind,
		Order:   &snapshot,
		From:    order.Status,
		To:      target,
		ActorID: req.actorID,
		Notes:   req.notes,
		Reason:  req.reason,
	})

	outcome = "success"
	log.Info("Статус заявки изменён",
		zap.String("from", order.Status.String()),
		zap.String("to", target.String()),
		zap.Int("sideEffectErrors", len(failures)),
	)

	return &dto.TransitionResultDTO{
		Success:          true,
		OrderID:          order.ID,
		PreviousStatus:   order.Status.String(),
		AppliedStatus:    target.String(),
		Progress:         flow.Progress(target),
		SideEffectErrors: sideEffectsToDTO(failures),
	}, nil
}

func (s *TransitionService) statusChange(req transitionRequest, from, to workflow.Status, txID uuid.UUID) entities.StatusChange {
	change := entities.StatusChange{
		OrderID:    req.orderID,
		Expected:   from,
		New:        to,
		ActorID:    req.actorID,
		EventType:  entities.HistoryEventStatusChange,
		Comment:    req.notes,
		Actions:    req.actions,
		SkipReason: req.skipReason,
		TxID:       txID,
	}
	if req.kind == TransitionRevert {
		change.EventType = entities.HistoryEventStatusRevert
		change.Comment = req.reason
	}
	return change
}

func (s *TransitionService) load(ctx context.Context, orderID uint64) (*entities.ServiceOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.PersistenceTimeout)
	defer cancel()

	order, err := s.store.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("не удалось загрузить заявку %d: %w", orderID, err)
	}
	return order, nil
}

func (s *TransitionService) compareAndSet(ctx context.Context, change entities.StatusChange) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.PersistenceTimeout)
	defer cancel()

	applied, err := s.store.CompareAndSetStatus(ctx, change)
	if err != nil {
		return false, fmt.Errorf("не удалось сохранить статус заявки %d: %w", change.OrderID, err)
	}
	return applied, nil
}

func (s *TransitionService) lookupRequiredActions(ctx context.Context, from, to workflow.Status, attendance workflow.AttendanceType) (*entities.RequiredActionConfig, error) {
	if s.actions == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.PersistenceTimeout)
	defer cancel()
	return s.actions.Lookup(ctx, from, to, attendance)
}

// flowFor выбирает поток заявки. Неизвестный способ обслуживания уходит в on_site с предупреждением.
func (s *TransitionService) flowFor(order *entities.ServiceOrder) workflow.Flow {
	attendance, known := workflow.ResolveAttendance(order.AttendanceType, order.ItemAttendanceTypes()...)
	if !known {
		s.logger.Warn("Неизвестный способ обслуживания заявки, применён поток on_site",
			zap.Uint64("orderID", order.ID),
			zap.String("attendanceType", order.AttendanceType.String()),
		)
	}
	return workflow.FlowFor(attendance)
}

func (s *TransitionService) DescribeFlow(attendance workflow.AttendanceType) dto.FlowDTO {
	flow := workflow.FlowFor(attendance)
	steps := flow.Steps()

	out := dto.FlowDTO{
		AttendanceType: flow.AttendanceType().String(),
		Fallback:       !workflow.Known(attendance),
		Steps:          make([]dto.FlowStepDTO, 0, len(steps)),
	}
	for i, step := range steps {
		out.Steps = append(out.Steps, stepToDTO(step, i))
	}
	return out
}

func (s *TransitionService) ProgressOf(order *entities.ServiceOrder) float64 {
	return s.flowFor(order).Progress(order.Status)
}

func (s *TransitionService) GetProgress(ctx context.Context, orderID uint64) (*dto.ProgressDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	flow := s.flowFor(order)

	out := &dto.ProgressDTO{
		OrderID:        order.ID,
		AttendanceType: flow.AttendanceType().String(),
		Status:         order.Status.String(),
		Progress:       flow.Progress(order.Status),
		IsCompleted:    workflow.IsCompletionStatus(order.Status),
	}
	if step, ok := flow.Step(order.Status); ok {
		current := stepToDTO(step, flow.IndexOf(order.Status))
		out.Current = &current
	}
	if next, ok := flow.Next(order.Status); ok {
		step, _ := flow.Step(next)
		d := stepToDTO(step, flow.IndexOf(next))
		out.Next = &d
	}
	if prev, ok := flow.Previous(order.Status); ok {
		step, _ := flow.Step(prev)
		d := stepToDTO(step, flow.IndexOf(prev))
		out.Previous = &d
	}
	return out, nil
}

func stepToDTO(step workflow.FlowStep, index int) dto.FlowStepDTO {
	return dto.FlowStepDTO{
		Status:      step.Status.String(),
		Label:       step.Label,
		Description: step.Description,
		Icon:        step.Icon,
		Index:       index,
	}
}

func requiredActionToDTO(cfg *entities.RequiredActionConfig) *dto.RequiredActionConfigDTO {
	out := &dto.RequiredActionConfigDTO{
		ID:         cfg.ID,
		Title:      cfg.Title,
		FromStatus: cfg.FromStatus.String(),
		ToStatus:   cfg.ToStatus.String(),
		AllowSkip:  cfg.AllowSkip,
		Actions:    make([]dto.RequiredActionDTO, 0, len(cfg.Actions)),
	}
	for _, a := range cfg.Actions {
		out.Actions = append(out.Actions, dto.RequiredActionDTO{Key: a.Key, Label: a.Label, Type: a.Type, Required: a.Required})
	}
	return out
}

func sideEffectsToDTO(failures []SideEffectError) []dto.SideEffectErrorDTO {
	out := make([]dto.SideEffectErrorDTO, 0, len(failures))
	for _, f := range failures {
		out = append(out, dto.SideEffectErrorDTO{Hook: f.Hook, Message: f.Message})
	}
	return out
}
