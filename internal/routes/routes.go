package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"service-order/internal/controllers"
	"service-order/internal/repositories"
	"service-order/internal/services"
	"service-order/pkg/config"
	"service-order/pkg/eventbus"
	"service-order/pkg/logger"
	"service-order/pkg/metrics"
	"service-order/pkg/middleware"
	"service-order/pkg/service"
	"service-order/pkg/websocket"
)

// newOrderLocker выбирает реализацию блокировки по конфигу. Redis нужен, когда экземпляров сервиса несколько.
func newOrderLocker(cfg config.WorkflowConfig, cache repositories.CacheRepositoryInterface, log *zap.Logger) services.OrderLocker {
	if cfg.LockBackend == "redis" && cache != nil {
		log.Info("Блокировка переходов: redis", zap.Duration("ttl", cfg.LockTTL))
		return services.NewRedisOrderLocker(cache, cfg.LockTTL, log)
	}
	if cfg.LockBackend != "memory" {
		log.Warn("Неизвестный или недоступный бэкенд блокировки, используется memory", zap.String("backend", cfg.LockBackend))
	}
	return services.NewMemoryOrderLocker()
}

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	bus *eventbus.Bus,
	jwtSvc service.JWTService,
	hub *websocket.Hub,
	loggers *logger.Loggers,
	m *metrics.Metrics,
	cfg *config.Config,
) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Main)
	txManager := repositories.NewTxManager(dbConn)

	// --- 1. РЕПОЗИТОРИИ ---
	historyRepo := repositories.NewOrderHistoryRepository(dbConn)
	orderRepo := repositories.NewServiceOrderRepository(dbConn, txManager, historyRepo)
	requiredActionRepo := repositories.NewRequiredActionRepository(dbConn)
	paymentStageRepo := repositories.NewPaymentStageRepository(dbConn)
	warrantyRepo := repositories.NewWarrantyRepository(dbConn, txManager)
	checkinRepo := repositories.NewCheckinRepository(dbConn)
	ratingRepo := repositories.NewRatingRepository(dbConn)
	notificationRepo := repositories.NewNotificationRepository(dbConn)

	var cache repositories.CacheRepositoryInterface
	if redisClient != nil {
		cache = repositories.NewRedisCacheRepository(redisClient)
	}

	// --- 2. СЕРВИСЫ ---
	hooks := services.TransitionHooks{
		Payment:       services.NewPaymentStageService(paymentStageRepo, loggers.Hooks),
		Warranty:      services.NewWarrantyService(warrantyRepo, loggers.Hooks),
		Checkin:       services.NewTechnicianCheckinService(checkinRepo),
		Rating:        services.NewRatingService(ratingRepo, bus, loggers.Hooks),
		Notifications: services.NewTransitionNotificationService(notificationRepo, bus),
	}
	wf := cfg.Workflow
	transitionService := services.NewTransitionService(
		orderRepo,
		newOrderLocker(wf, cache, loggers.Transition),
		services.NewCachedRequiredActionProvider(requiredActionRepo, cache, wf.ActionConfigCacheTTL, loggers.Transition),
		services.NewAdvancePipeline(hooks, wf.HookTimeout, m, loggers.Hooks),
		services.NewRevertPipeline(hooks, wf.HookTimeout, m, loggers.Hooks),
		wf,
		m,
		loggers.Transition,
	)
	historyService := services.NewOrderHistoryService(historyRepo, loggers.History)
	reportService := services.NewReportService(historyRepo, loggers.History)

	// --- 3. КОНТРОЛЛЕРЫ ---
	transitionController := controllers.NewTransitionController(transitionService, loggers.Transition)
	historyController := controllers.NewOrderHistoryController(historyService, transitionService, loggers.History)
	reportController := controllers.NewReportController(reportService, loggers.History)
	liveFeedController := controllers.NewLiveFeedController(hub, jwtSvc, loggers.Main.Named("ws"))

	// --- 4. РОУТЕРЫ ---
	secureGroup := api.Group("", authMW.Auth)

	runTransitionRouter(secureGroup, transitionController)
	runOrderHistoryRouter(secureGroup, historyController)
	runReportRouter(secureGroup, reportController)
	runLiveFeedRouter(api, liveFeedController)
	runMetricsRouter(e, m)

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
