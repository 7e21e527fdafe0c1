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

type RequiredActionRepositoryInterface interface {
	// FindActive возвращает nil без ошибки, если для тройки ничего не настроено.
	FindActive(ctx context.Context, from, to workflow.Status, attendance workflow.AttendanceType) (*entities.RequiredActionConfig, error)
	Upsert(ctx context.Context, cfg *entities.RequiredActionConfig) error
}

type RequiredActionRepository struct {
	storage *pgxpool.Pool
}

func NewRequiredActionRepository(storage *pgxpool.Pool) RequiredActionRepositoryInterface {
	return &RequiredActionRepository{storage: storage}
}

func (r *RequiredActionRepository) FindActive(ctx context.Context, from, to workflow.Status, attendance workflow.AttendanceType) (*entities.RequiredActionConfig, error) {
	query, args, err := psql.
		Select("id", "from_status", "to_status", "attendance_type", "title", "allow_skip", "actions", "is_active").
		From("required_action_configs").
		Where(sq.Eq{"from_status": from, "to_status": to, "attendance_type": attendance, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var cfg entities.RequiredActionConfig
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&cfg.ID, &cfg.FromStatus, &cfg.ToStatus, &cfg.AttendanceType,
		&cfg.Title, &cfg.AllowSkip, &cfg.Actions, &cfg.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *RequiredActionRepository) Upsert(ctx context.Context, cfg *entities.RequiredActionConfig) error {
	actions := cfg.Actions
	if actions == nil {
		actions = []entities.RequiredAction{}
	}
	query, args, err := psql.
		Insert("required_action_configs").
		Columns("from_status", "to_status", "attendance_type", "title", "allow_skip", "actions", "is_active").
		Values(cfg.FromStatus, cfg.ToStatus, cfg.AttendanceType, cfg.Title, cfg.AllowSkip, actions, cfg.IsActive).
		Suffix(`ON CONFLICT (from_status, to_status, attendance_type) DO UPDATE
			SET title = EXCLUDED.title, allow_skip = EXCLUDED.allow_skip,
			    actions = EXCLUDED.actions, is_active = EXCLUDED.is_active
			RETURNING id`).
		ToSql()
	if err != nil {
		return err
	}
	return r.storage.QueryRow(ctx, query, args...).Scan(&cfg.ID)
}
