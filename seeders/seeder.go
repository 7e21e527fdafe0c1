package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"service-order/internal/entities"
	"service-order/internal/repositories"
	"service-order/internal/services"
)

type requiredActionSaver interface {
	Save(ctx context.Context, cfg *entities.RequiredActionConfig) error
}

// SeedTransitionConfigs наполняет конфигурации обязательных действий и этапов оплаты.
// Повторный запуск обновляет существующие записи по их уникальному ключу.
// cache может быть nil, иначе изменённые настройки сразу сбрасываются из кеша сервиса.
func SeedTransitionConfigs(db *pgxpool.Pool, cache repositories.CacheRepositoryInterface, logger *zap.Logger) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения конфигураций переходов...")

	provider := services.NewCachedRequiredActionProvider(repositories.NewRequiredActionRepository(db), cache, 0, logger)
	if err := seedRequiredActions(ctx, provider); err != nil {
		log.Fatalf("❌ Ошибка наполнения обязательных действий: %v", err)
	}
	if err := seedPaymentStages(ctx, repositories.NewPaymentStageRepository(db)); err != nil {
		log.Fatalf("❌ Ошибка наполнения этапов оплаты: %v", err)
	}
	log.Println("✅ Наполнение конфигураций переходов завершено!")
}

// SeedTechnicians создаёт демонстрационных техников.
func SeedTechnicians(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения техников...")

	if err := seedTechnicians(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения техников: %v", err)
	}
	log.Println("✅ Наполнение техников завершено!")
}

func seedRequiredActions(ctx context.Context, saver requiredActionSaver) error {
	log.Println("  - Наполнение таблицы 'required_action_configs'...")
	for _, item := range requiredActionsData {
		cfg := item
		cfg.IsActive = true
		if err := saver.Save(ctx, &cfg); err != nil {
			log.Printf("Ошибка при сохранении конфигурации '%s' (%s -> %s): %v", cfg.Title, cfg.FromStatus, cfg.ToStatus, err)
			return err
		}
	}
	return nil
}

func seedPaymentStages(ctx context.Context, repo repositories.PaymentStageRepositoryInterface) error {
	log.Println("  - Наполнение таблицы 'payment_stage_configs'...")
	for _, item := range paymentStagesData {
		stage := item
		stage.IsActive = true
		if err := repo.UpsertConfig(ctx, &stage); err != nil {
			log.Printf("Ошибка при сохранении этапа '%s' (%s/%s): %v", stage.StageName, stage.AttendanceType, stage.Status, err)
			return err
		}
	}
	return nil
}

func seedTechnicians(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'technicians'...")
	// уникального ключа нет, поэтому существующие по имени пропускаются
	query := `INSERT INTO technicians (full_name, telegram_chat_id)
			  SELECT $1, $2 WHERE NOT EXISTS (SELECT 1 FROM technicians WHERE full_name = $1);`

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, t := range techniciansData {
		if _, err := tx.Exec(ctx, query, t.FullName, t.TelegramChatID); err != nil {
			log.Printf("Ошибка при вставке техника '%s': %v", t.FullName, err)
			return err
		}
	}

	return tx.Commit(ctx)
}
