package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"service-order/internal/repositories"
	"service-order/migrations"
	"service-order/pkg/config"
	"service-order/pkg/database/postgresql"
	applogger "service-order/pkg/logger"
	"service-order/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runConfigs := flag.Bool("configs", false, "Запустить наполнение обязательных действий и этапов оплаты")
	runTechnicians := flag.Bool("technicians", false, "Запустить создание демонстрационных техников")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -configs -technicians)")

	flag.Parse()

	if !*runConfigs && !*runTechnicians && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -configs")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer logger.Sync()

	log.Println("📦 Используется DSN:", cfg.Postgres.DSN)
	dbPool, err := postgresql.ConnectDB(context.Background(), cfg.Postgres.DSN, logger)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к БД: %v", err)
	}
	defer dbPool.Close()

	// сидеры пишут в таблицы миграций, схема должна быть актуальной
	if err := postgresql.Migrate(dbPool, migrations.FS, logger); err != nil {
		log.Fatalf("❌ Ошибка применения миграций: %v", err)
	}

	log.Println("======================================================")

	if *runAll || *runConfigs {
		seeders.SeedTransitionConfigs(dbPool, connectCache(cfg.Redis), logger)
		log.Println("======================================================")
	}

	if *runAll || *runTechnicians {
		seeders.SeedTechnicians(dbPool)
		log.Println("======================================================")
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}

// connectCache возвращает nil, если Redis недоступен: сервис сам перечитает настройки по истечении TTL кеша.
func connectCache(cfg config.RedisConfig) repositories.CacheRepositoryInterface {
	client := redis.NewClient(&redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Redis недоступен (%v), кеш обязательных действий не будет сброшен", err)
		client.Close()
		return nil
	}
	return repositories.NewRedisCacheRepository(client)
}
