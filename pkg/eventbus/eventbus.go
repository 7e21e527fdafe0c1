package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event представляет собой любое событие в системе.
type Event interface {
	Name() string
}

// Listener - обработчик событий.
type Listener func(ctx context.Context, event Event) error

// Bus - шина событий. Слушатели вызываются асинхронно.
type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	wg        sync.WaitGroup
	timeout   time.Duration
	logger    *zap.Logger
}

// New создает новую шину событий с таймаутом 1 минута на обработчик.
func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		timeout:   time.Minute,
		logger:    logger,
	}
}

// Subscribe подписывает слушателя на определенное событие.
func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish публикует событие. Контекст публикующего не передаётся: обработчик живёт дольше запроса.
func (b *Bus) Publish(_ context.Context, event Event) {
	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners[event.Name()]...)
	b.mu.RUnlock()

	for _, listener := range listeners {
		b.wg.Add(1)
		go b.dispatch(listener, event)
	}
}

func (b *Bus) dispatch(l Listener, event Event) {
	defer b.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Паника в обработчике события",
				zap.String("event", event.Name()),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()

	if err := l(ctx, event); err != nil {
		b.logger.Error("Ошибка в обработчике события",
			zap.String("event", event.Name()),
			zap.Error(err),
		)
	}
}

// Wait дожидается завершения всех запущенных обработчиков. Используется при остановке сервера.
func (b *Bus) Wait() {
	b.wg.Wait()
}
