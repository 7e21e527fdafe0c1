package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"service-order/internal/listeners"
	"service-order/internal/repositories"
	"service-order/internal/routes"
	"service-order/migrations"
	"service-order/pkg/config"
	"service-order/pkg/database/postgresql"
	apperrors "service-order/pkg/errors"
	"service-order/pkg/eventbus"
	applogger "service-order/pkg/logger"
	"service-order/pkg/metrics"
	"service-order/pkg/middleware"
	"service-order/pkg/resilience"
	"service-order/pkg/service"
	"service-order/pkg/telegram"
	"service-order/pkg/utils"
	"service-order/pkg/validation"
	"service-order/pkg/websocket"
)

func main() {
	// 1. Конфиг и логгеры
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer logger.Sync()
	loggers := applogger.NewLoggers(logger)

	// 2. База данных и миграции
	dbConn, err := postgresql.ConnectDB(context.Background(), cfg.Postgres.DSN, logger)
	if err != nil {
		logger.Fatal("Не удалось подключиться к PostgreSQL", zap.Error(err))
	}
	defer dbConn.Close()

	if cfg.Postgres.AutoMigrate {
		if err := postgresql.Migrate(dbConn, migrations.FS, logger); err != nil {
			logger.Fatal("Ошибка применения миграций", zap.Error(err))
		}
	}

	// 3. Redis опционален: без него блокировки и кэш работают в памяти процесса
	redisClient := connectRedis(cfg.Redis, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// 4. Метрики, шина событий и подписчики
	m := metrics.New("service_order")
	bus := eventbus.New(loggers.Main.Named("eventbus"))

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := websocket.NewHub(loggers.Main.Named("ws"))
	go hub.Run(hubCtx)
	listeners.NewLiveFeedListener(hub, loggers.Main.Named("ws")).Register(bus)

	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		breaker := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("telegram"), loggers.Hooks, m)
		listener := listeners.NewNotificationListener(
			repositories.NewTechnicianRepository(dbConn),
			telegram.NewService(cfg.Telegram.BotToken),
			breaker,
			loggers.Hooks.Named("telegram"),
		)
		listener.Register(bus)
	} else {
		logger.Info("Telegram-уведомления отключены")
	}

	// 5. HTTP-сервер
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()

	e.Use(middleware.RequestLogger(loggers.Main.Named("http"), m))
	e.Use(echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey)
	routes.InitRouter(e, dbConn, redisClient, bus, jwtSvc, hub, loggers, m, cfg)

	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	// 6. Корректное завершение: дожидаемся запросов и подписчиков шины
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Получен сигнал завершения, останавливаем сервер")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}
	bus.Wait()
	stopHub()
	logger.Info("Сервер остановлен")
}

func connectRedis(cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		logger.Warn("Redis недоступен, используется режим без Redis", zap.Error(err), zap.String("address", cfg.Address))
		client.Close()
		return nil
	}
	logger.Info("Подключено к Redis", zap.String("address", cfg.Address))
	return client
}
