package listeners

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"service-order/internal/events"
	"service-order/internal/repositories"
	"service-order/internal/workflow"
	"service-order/pkg/eventbus"
	apperrors "service-order/pkg/errors"
	"service-order/pkg/resilience"
	"service-order/pkg/telegram"
)

// NotificationListener доставляет технику уведомления о смене статуса его заявки в Telegram.
type NotificationListener struct {
	technicianRepo repositories.TechnicianRepositoryInterface
	telegram       telegram.ServiceInterface
	breaker        *resilience.CircuitBreaker
	logger         *zap.Logger
}

func NewNotificationListener(
	technicianRepo repositories.TechnicianRepositoryInterface,
	telegramService telegram.ServiceInterface,
	breaker *resilience.CircuitBreaker,
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{
		technicianRepo: technicianRepo,
		telegram:       telegramService,
		breaker:        breaker,
		logger:         logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.OrderStatusChanged, l.handleStatusChanged)
	bus.Subscribe(events.OrderStatusReverted, l.handleStatusReverted)
	bus.Subscribe(events.OrderRatingRequested, l.handleRatingRequested)
	l.logger.Info("NotificationListener подписан на события смены статуса")
}

func (l *NotificationListener) handleStatusChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderStatusChangedEvent)
	if !ok {
		return nil
	}

	text := fmt.Sprintf("Заявка №%d: статус «%s» → «%s»",
		e.OrderID, workflow.StatusLabel(e.From), workflow.StatusLabel(e.To))
	if e.Notes != "" {
		text += "\nКомментарий: " + e.Notes
	}
	return l.notifyTechnician(ctx, e.OrderID, e.TechnicianID, text)
}

func (l *NotificationListener) handleStatusReverted(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderStatusRevertedEvent)
	if !ok {
		return nil
	}

	text := fmt.Sprintf("Заявка №%d: статус возвращён на «%s»\nПричина: %s",
		e.OrderID, workflow.StatusLabel(e.To), e.Reason)
	return l.notifyTechnician(ctx, e.OrderID, e.TechnicianID, text)
}

// TODO: отправлять клиенту ссылку на оценку, когда появится канал связи с клиентом.
func (l *NotificationListener) handleRatingRequested(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.RatingRequestedEvent)
	if !ok {
		return nil
	}
	l.logger.Info("Запрошена оценка заявки", zap.Uint64("orderID", e.OrderID), zap.String("token", e.Token.String()))
	return nil
}

func (l *NotificationListener) notifyTechnician(ctx context.Context, orderID, technicianID uint64, text string) error {
	if technicianID == 0 {
		l.logger.Debug("У заявки нет техника, уведомление пропущено", zap.Uint64("orderID", orderID))
		return nil
	}

	technician, err := l.technicianRepo.FindByID(ctx, technicianID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			l.logger.Warn("Техник заявки не найден", zap.Uint64("orderID", orderID), zap.Uint64("technicianID", technicianID))
			return nil
		}
		return fmt.Errorf("не удалось загрузить техника %d: %w", technicianID, err)
	}
	if !technician.TelegramChatID.Valid {
		l.logger.Debug("У техника не привязан Telegram", zap.Uint64("technicianID", technicianID))
		return nil
	}

	chatID := technician.TelegramChatID.Int64
	err = l.breaker.Execute(ctx, func(ctx context.Context) error {
		return l.telegram.SendMessage(ctx, chatID, text)
	})
	if err != nil {
		return fmt.Errorf("не удалось отправить уведомление по заявке %d: %w", orderID, err)
	}

	l.logger.Info("Уведомление отправлено технику", zap.Uint64("orderID", orderID), zap.Uint64("technicianID", technicianID))
	return nil
}
