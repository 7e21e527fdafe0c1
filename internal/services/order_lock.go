package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"service-order/internal/repositories"
)

// OrderLocker - рекомендательная блокировка заявки на время перехода.
// TryLock не ждёт: если заявка занята, возвращает ok=false.
type OrderLocker interface {
	TryLock(ctx context.Context, orderID uint64) (release func(), ok bool, err error)
}

// MemoryOrderLocker - блокировка в памяти процесса. Подходит для одного экземпляра сервиса.
type MemoryOrderLocker struct {
	mu     sync.Mutex
	locked map[uint64]struct{}
}

func NewMemoryOrderLocker() *MemoryOrderLocker {
	return &MemoryOrderLocker{locked: make(map[uint64]struct{})}
}

func (l *MemoryOrderLocker) TryLock(_ context.Context, orderID uint64) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.locked[orderID]; busy {
		return nil, false, nil
	}
	l.locked[orderID] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.locked, orderID)
			l.mu.Unlock()
		})
	}
	return release, true, nil
}

// RedisOrderLocker - блокировка через SET NX PX с токеном владельца.
// Пока блокировка удерживается, ключ продлевается каждые ttl/3; TTL срабатывает,
// только если процесс упал до освобождения.
type RedisOrderLocker struct {
	cache        repositories.CacheRepositoryInterface
	ttl          time.Duration
	refreshEvery time.Duration
	logger       *zap.Logger
}

func NewRedisOrderLocker(cache repositories.CacheRepositoryInterface, ttl time.Duration, logger *zap.Logger) *RedisOrderLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	refresh := ttl / 3
	if refresh <= 0 {
		refresh = ttl
	}
	return &RedisOrderLocker{cache: cache, ttl: ttl, refreshEvery: refresh, logger: logger}
}

func orderLockKey(orderID uint64) string {
	return fmt.Sprintf("order:transition-lock:%d", orderID)
}

func (l *RedisOrderLocker) TryLock(ctx context.Context, orderID uint64) (func(), bool, error) {
	key := orderLockKey(orderID)
	token := uuid.NewString()

	ok, err := l.cache.SetNX(ctx, key, token, l.ttl)
	if err != nil {
		return nil, false, fmt.Errorf("не удалось взять блокировку заявки %d: %w", orderID, err)
	}
	if !ok {
		return nil, false, nil
	}

	// побочные действия идут без отмены запроса, поэтому и продление от неё не зависит
	watchCtx, stopWatch := context.WithCancel(context.WithoutCancel(ctx))
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		l.keepAlive(watchCtx, orderID, key, token)
	}()

	var once sync.Once
	release := func() {
		once.Do(func() {
			stopWatch()
			<-watchDone

			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
			defer cancel()
			deleted, err := l.cache.CompareAndDelete(releaseCtx, key, token)
			if err != nil {
				l.logger.Error("Не удалось освободить блокировку заявки", zap.Uint64("orderID", orderID), zap.Error(err))
				return
			}
			if !deleted {
				l.logger.Warn("Блокировка заявки истекла до освобождения", zap.Uint64("orderID", orderID), zap.Duration("ttl", l.ttl))
			}
		})
	}
	return release, true, nil
}

// keepAlive продлевает ключ, пока владелец его держит. Ошибка Redis не прерывает цикл:
// следующая попытка может успеть до истечения TTL.
func (l *RedisOrderLocker) keepAlive(ctx context.Context, orderID uint64, key, token string) {
	ticker := time.NewTicker(l.refreshEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			extendCtx, cancel := context.WithTimeout(ctx, l.refreshEvery)
			extended, err := l.cache.CompareAndExpire(extendCtx, key, token, l.ttl)
			cancel()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Warn("Не удалось продлить блокировку заявки", zap.Uint64("orderID", orderID), zap.Error(err))
				continue
			}
			if !extended {
				l.logger.Error("Блокировка заявки потеряна до завершения перехода", zap.Uint64("orderID", orderID))
				return
			}
		}
	}
}
