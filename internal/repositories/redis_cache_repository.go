package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

var compareAndDeleteScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var compareAndExpireScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisCacheRepository - реализация кеша на Redis.
type RedisCacheRepository struct {
	client *redis.Client
}

func NewRedisCacheRepository(client *redis.Client) CacheRepositoryInterface {
	return &RedisCacheRepository{client: client}
}

// Get получает значение из кеша по ключу. Отсутствие ключа - ErrCacheMiss.
func (r *RedisCacheRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (r *RedisCacheRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisCacheRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisCacheRepository) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, value, expiration).Result()
}

func (r *RedisCacheRepository) CompareAndDelete(ctx context.Context, key, expected string) (bool, error) {
	n, err := compareAndDeleteScript.Run(ctx, r.client, []string{key}, expected).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *RedisCacheRepository) CompareAndExpire(ctx context.Context, key, expected string, expiration time.Duration) (bool, error) {
	n, err := compareAndExpireScript.Run(ctx, r.client, []string{key}, expected, expiration.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
