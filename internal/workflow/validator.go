package workflow

import (
	"errors"
	"fmt"
)

// Причины отказа в переходе. Сообщения показываются пользователю как есть.
var (
	ErrSameStatus          = errors.New("заявка уже находится в этом статусе")
	ErrNotInFlow           = errors.New("статус недоступен для способа обслуживания заявки")
	ErrTerminalState       = errors.New("заявка завершена или отменена, изменение статуса невозможно")
	ErrNotAdjacentOnRevert = errors.New("откат возможен только на предыдущий шаг")
	ErrNoPreviousStep      = errors.New("у текущего статуса нет предыдущего шага")
	ErrOrphanStatus        = errors.New("текущий статус заявки не принадлежит ни одному шагу потока")
	ErrBackwardAdvance     = errors.New("вернуть заявку на предыдущий шаг можно только откатом с указанием причины")
)

// RejectionKind - машинный код причины отказа для API.
type RejectionKind string

const (
	RejectSameStatus          RejectionKind = "same_status"
	RejectNotInFlow           RejectionKind = "not_in_flow"
	RejectTerminalState       RejectionKind = "terminal_state"
	RejectNotAdjacentOnRevert RejectionKind = "not_adjacent_on_revert"
	RejectNoPreviousStep      RejectionKind = "no_previous_step"
	RejectOrphanStatus        RejectionKind = "orphan_status"
	RejectBackwardAdvance     RejectionKind = "backward_advance"
)

var rejectionKinds = map[error]RejectionKind{
	ErrSameStatus:          RejectSameStatus,
	ErrNotInFlow:           RejectNotInFlow,
	ErrTerminalState:       RejectTerminalState,
	ErrNotAdjacentOnRevert: RejectNotAdjacentOnRevert,
	ErrNoPreviousStep:      RejectNoPreviousStep,
	ErrOrphanStatus:        RejectOrphanStatus,
	ErrBackwardAdvance:     RejectBackwardAdvance,
}

// RejectionError - отказ валидатора. Всегда восстановимая ошибка, в логах как сбой не пишется.
type RejectionError struct {
	Reason error
	From   Status
	To     Status
}

func reject(reason error, from, to Status) error {
	return &RejectionError{Reason: reason, From: from, To: to}
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s (%s -> %s)", e.Reason, e.From, e.To)
}

func (e *RejectionError) Unwrap() error {
	return e.Reason
}

func (e *RejectionError) Kind() RejectionKind {
	return rejectionKinds[e.Reason]
}

// Message - человекочитаемая причина, 1:1 с Kind.
func (e *RejectionError) Message() string {
	return e.Reason.Error()
}

// IsRejection сообщает, является ли ошибка отказом валидатора.
func IsRejection(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej)
}

// ValidateAdvance проверяет переход вперёд. Пропускать шаги можно,
// назад по потоку можно только через ValidateRevert.
func ValidateAdvance(flow Flow, current, target Status) error {
	if current == target {
		return reject(ErrSameStatus, current, target)
	}
	if !flow.Accepts(current) {
		return reject(ErrOrphanStatus, current, target)
	}
	if current.IsTerminal() {
		return reject(ErrTerminalState, current, target)
	}
	if !flow.Accepts(target) {
		return reject(ErrNotInFlow, current, target)
	}
	if flow.Contains(current) && flow.Contains(target) && flow.IndexOf(target) < flow.IndexOf(current) {
		return reject(ErrBackwardAdvance, current, target)
	}
	return nil
}

// ValidateRevert вычисляет цель отката. Координатор передаёт пустой requested,
// явная цель остаётся для вызывающих, которые её называют, и обязана совпадать с предыдущим шагом.
func ValidateRevert(flow Flow, current, requested Status) (Status, error) {
	if !flow.Accepts(current) {
		return "", reject(ErrOrphanStatus, current, requested)
	}
	prev, ok := flow.Previous(current)
	if !ok {
		return "", reject(ErrNoPreviousStep, current, requested)
	}
	if requested != "" && requested != prev {
		return "", reject(ErrNotAdjacentOnRevert, current, requested)
	}
	return prev, nil
}
