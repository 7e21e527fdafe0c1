package repositories

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss - ключа нет в кеше.
var ErrCacheMiss = errors.New("ключ не найден в кеше")

type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	// SetNX записывает значение, только если ключа ещё нет.
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	// CompareAndDelete удаляет ключ, только если его значение равно expected.
	CompareAndDelete(ctx context.Context, key, expected string) (bool, error)
	// CompareAndExpire продлевает ключ, только если его значение равно expected.
	CompareAndExpire(ctx context.Context, key, expected string, expiration time.Duration) (bool, error)
}
