package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryOrderLocker(t *testing.T) {
	locker := NewMemoryOrderLocker()
	ctx := context.Background()

	release, ok, err := locker.TryLock(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, _ = locker.TryLock(ctx, 1)
	assert.False(t, ok, "повторная блокировка той же заявки")

	release2, ok, _ := locker.TryLock(ctx, 2)
	assert.True(t, ok, "другая заявка не блокируется")
	release2()

	release()
	release() // повторный вызов безопасен

	release3, ok, _ := locker.TryLock(ctx, 1)
	assert.True(t, ok)
	release3()
}

func TestMemoryOrderLocker_ConcurrentExactlyOne(t *testing.T) {
	locker := NewMemoryOrderLocker()
	var winners atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, ok, _ := locker.TryLock(context.Background(), 42); ok {
				winners.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestRedisOrderLocker(t *testing.T) {
	cache := newFakeCache()
	locker := NewRedisOrderLocker(cache, time.Minute, zap.NewNop())
	ctx := context.Background()

	release, ok, err := locker.TryLock(ctx, 5)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.TryLock(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	// чужой токен не снимает блокировку
	stolen, _ := cache.CompareAndDelete(ctx, orderLockKey(5), "someone-else")
	assert.False(t, stolen)

	release()
	_, ok, _ = locker.TryLock(ctx, 5)
	assert.True(t, ok)
}

func TestRedisOrderLocker_Error(t *testing.T) {
	cache := newFakeCache()
	cache.failSetNX = true
	locker := NewRedisOrderLocker(cache, time.Minute, zap.NewNop())

	_, ok, err := locker.TryLock(context.Background(), 1)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisOrderLocker_KeepsLockAliveWhileHeld(t *testing.T) {
	cache := newFakeCache()
	locker := NewRedisOrderLocker(cache, 60*time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	release, ok, err := locker.TryLock(ctx, 9)
	require.NoError(t, err)
	require.True(t, ok)

	// отмена запроса не останавливает продление: побочные действия ещё идут
	cancel()

	// без продления ключ истёк бы уже через 60ms
	time.Sleep(250 * time.Millisecond)
	_, ok, err = locker.TryLock(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, ok, "заявка всё ещё занята первым переходом")
	assert.GreaterOrEqual(t, cache.extendCalls(), 3)

	release()
	calls := cache.extendCalls()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, calls, cache.extendCalls(), "после освобождения продление остановлено")

	release2, ok, _ := locker.TryLock(context.Background(), 9)
	assert.True(t, ok)
	release2()
}

func TestRedisOrderLocker_StopsExtendingLostLock(t *testing.T) {
	cache := newFakeCache()
	locker := NewRedisOrderLocker(cache, 60*time.Millisecond, zap.NewNop())

	release, ok, _ := locker.TryLock(context.Background(), 4)
	require.True(t, ok)
	defer release()

	// ключ перехвачен: владелец сменился
	require.NoError(t, cache.Set(context.Background(), orderLockKey(4), "other-owner", time.Minute))

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, cache.extendCalls())

	v, err := cache.Get(context.Background(), orderLockKey(4))
	require.NoError(t, err)
	assert.Equal(t, "other-owner", v)
}
