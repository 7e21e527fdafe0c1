package repositories

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-order/internal/entities"
	"service-order/internal/workflow"
)

type PaymentStageRepositoryInterface interface {
	FindActiveConfig(ctx context.Context, attendance workflow.AttendanceType, status workflow.Status) (*entities.PaymentStageConfig, error)
	// Record возвращает false, если этап для заявки уже подтверждён.
	Record(ctx context.Context, rec *entities.PaymentStageRecord) (bool, error)
	UpsertConfig(ctx context.Context, cfg *entities.PaymentStageConfig) error
}

type PaymentStageRepository struct {
	storage *pgxpool.Pool
}

func NewPaymentStageRepository(storage *pgxpool.Pool) PaymentStageRepositoryInterface {
	return &PaymentStageRepository{storage: storage}
}

func (r *PaymentStageRepository) FindActiveConfig(ctx context.Context, attendance workflow.AttendanceType, status workflow.Status) (*entities.PaymentStageConfig, error) {
	query, args, err := psql.
		Select("id", "attendance_type", "status", "stage_name", "percentage", "is_active").
		From("payment_stage_configs").
		Where(sq.Eq{"attendance_type": attendance, "status": status, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var cfg entities.PaymentStageConfig
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&cfg.ID, &cfg.AttendanceType, &cfg.Status, &cfg.StageName, &cfg.Percentage, &cfg.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *PaymentStageRepository) Record(ctx context.Context, rec *entities.PaymentStageRecord) (bool, error) {
	query, args, err := psql.
		Insert("payment_stage_records").
		Columns("order_id", "config_id", "status", "stage_name", "percentage", "confirmed_by").
		Values(rec.OrderID, rec.ConfigID, rec.Status, rec.StageName, rec.Percentage, rec.ConfirmedBy).
		Suffix("ON CONFLICT (order_id, config_id) DO NOTHING RETURNING id, created_at").
		ToSql()
	if err != nil {
		return false, err
	}

	err = r.storage.QueryRow(ctx, query, args...).Scan(&rec.ID, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *PaymentStageRepository) UpsertConfig(ctx context.Context, cfg *entities.PaymentStageConfig) error {
	query, args, err := psql.
		Insert("payment_stage_configs").
		Columns("attendance_type", "status", "stage_name", "percentage", "is_active").
		Values(cfg.AttendanceType, cfg.Status, cfg.StageName, cfg.Percentage, cfg.IsActive).
		Suffix(`ON CONFLICT (attendance_type, status) DO UPDATE
			SET stage_name = EXCLUDED.stage_name, percentage = EXCLUDED.percentage, is_active = EXCLUDED.is_active
			RETURNING id`).
		ToSql()
	if err != nil {
		return err
	}
	return r.storage.QueryRow(ctx, query, args...).Scan(&cfg.ID)
}
