package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"service-order/pkg/metrics"
)

var ErrCircuitOpen = errors.New("внешний сервис временно недоступен")

type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32        // запросов в состоянии half-open
	Interval         time.Duration // сброс счётчиков в закрытом состоянии
	Timeout          time.Duration // open -> half-open
	FailureThreshold uint32        // подряд идущих ошибок до размыкания
}

func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// CircuitBreaker - обёртка gobreaker с логированием и метрикой состояния.
type CircuitBreaker struct {
	cb     *gobreaker.CircuitBreaker
	name   string
	logger *zap.Logger
}

func NewCircuitBreaker(cfg CircuitBreakerConfig, logger *zap.Logger, m *metrics.Metrics) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Изменилось состояние circuit breaker",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if m != nil {
				m.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			}
		},
	}

	return &CircuitBreaker{
		cb:     gobreaker.NewCircuitBreaker(settings),
		name:   cfg.Name,
		logger: logger,
	}
}

// Execute выполняет fn через автомат. При разомкнутой цепи fn не вызывается.
func (c *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, fn(ctx)
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", ErrCircuitOpen, c.name)
	}
	return err
}

func (c *CircuitBreaker) State() gobreaker.State {
	return c.cb.State()
}
