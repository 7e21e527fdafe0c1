package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// ConnectDB создаёт пул соединений и проверяет доступность БД.
func ConnectDB(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("неверный DSN базы данных: %w", err)
	}
	cfg.MaxConnLifetime = time.Hour
	cfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания пула соединений к БД: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("не удалось пинговать БД: %w", err)
	}

	logger.Info("Подключено к PostgreSQL")
	return pool, nil
}

// Migrate применяет встроенные миграции goose через database/sql поверх пула pgx.
func Migrate(pool *pgxpool.Pool, migrations fs.FS, logger *zap.Logger) error {
	// Не закрываем db: соединениями владеет пул.
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return upMigrations(db)
}

func upMigrations(db *sql.DB) error {
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}
	return nil
}

type gooseLogger struct {
	s *zap.SugaredLogger
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.s.Fatalf(format, v...) }
func (l gooseLogger) Printf(format string, v ...interface{}) { l.s.Infof(format, v...) }
