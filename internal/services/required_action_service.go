package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"service-order/internal/entities"
	"service-order/internal/repositories"
	"service-order/internal/workflow"
)

// RequiredActionConfigProvider возвращает nil, если для перехода ничего не требуется.
type RequiredActionConfigProvider interface {
	Lookup(ctx context.Context, from, to workflow.Status, attendance workflow.AttendanceType) (*entities.RequiredActionConfig, error)
}

// отрицательный результат тоже кешируется, чтобы не ходить в БД на каждом переходе
const noRequiredActions = "none"

// CachedRequiredActionProvider читает настройки из БД через кеш Redis.
// Сбой кеша не мешает переходу: читаем напрямую из БД.
type CachedRequiredActionProvider struct {
	repo   repositories.RequiredActionRepositoryInterface
	cache  repositories.CacheRepositoryInterface
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedRequiredActionProvider(
	repo repositories.RequiredActionRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	ttl time.Duration,
	logger *zap.Logger,
) *CachedRequiredActionProvider {
	return &CachedRequiredActionProvider{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func requiredActionCacheKey(from, to workflow.Status, attendance workflow.AttendanceType) string {
	return fmt.Sprintf("required_action:%s:%s:%s", attendance, from, to)
}

func (p *CachedRequiredActionProvider) Lookup(ctx context.Context, from, to workflow.Status, attendance workflow.AttendanceType) (*entities.RequiredActionConfig, error) {
	key := requiredActionCacheKey(from, to, attendance)

	if p.cache != nil {
		cached, err := p.cache.Get(ctx, key)
		switch {
		case err == nil && cached == noRequiredActions:
			return nil, nil
		case err == nil:
			var cfg entities.RequiredActionConfig
			if jsonErr := json.Unmarshal([]byte(cached), &cfg); jsonErr == nil {
				return &cfg, nil
			}
			p.logger.Warn("Повреждённая запись кеша обязательных действий", zap.String("key", key))
		case !errors.Is(err, repositories.ErrCacheMiss):
			p.logger.Warn("Кеш обязательных действий недоступен", zap.String("key", key), zap.Error(err))
		}
	}

	cfg, err := p.repo.FindActive(ctx, from, to, attendance)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения настроек обязательных действий: %w", err)
	}

	if p.cache != nil {
		value := noRequiredActions
		if cfg != nil {
			raw, _ := json.Marshal(cfg)
			value = string(raw)
		}
		if err := p.cache.Set(ctx, key, value, p.ttl); err != nil {
			p.logger.Warn("Не удалось записать в кеш", zap.String("key", key), zap.Error(err))
		}
	}
	return cfg, nil
}

// Invalidate сбрасывает кеш после изменения настройки.
func (p *CachedRequiredActionProvider) Invalidate(ctx context.Context, from, to workflow.Status, attendance workflow.AttendanceType) error {
	if p.cache == nil {
		return nil
	}
	return p.cache.Del(ctx, requiredActionCacheKey(from, to, attendance))
}

// Save записывает настройку и сбрасывает её ключ в кеше, чтобы следующий переход прочитал новое значение.
// Если сбросить кеш не удалось, старое значение живёт не дольше ttl.
func (p *CachedRequiredActionProvider) Save(ctx context.Context, cfg *entities.RequiredActionConfig) error {
	if err := p.repo.Upsert(ctx, cfg); err != nil {
		return err
	}
	if err := p.Invalidate(ctx, cfg.FromStatus, cfg.ToStatus, cfg.AttendanceType); err != nil {
		p.logger.Warn("Не удалось сбросить кеш обязательных действий",
			zap.String("key", requiredActionCacheKey(cfg.FromStatus, cfg.ToStatus, cfg.AttendanceType)),
			zap.Duration("ttl", p.ttl),
			zap.Error(err),
		)
	}
	return nil
}
