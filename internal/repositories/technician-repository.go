package repositories

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-order/internal/entities"
	apperrors "service-order/pkg/errors"
)

type TechnicianRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Technician, error)
}

type TechnicianRepository struct {
	storage *pgxpool.Pool
}

func NewTechnicianRepository(storage *pgxpool.Pool) TechnicianRepositoryInterface {
	return &TechnicianRepository{storage: storage}
}

func (r *TechnicianRepository) FindByID(ctx context.Context, id uint64) (*entities.Technician, error) {
	query, args, err := psql.
		Select("id", "full_name", "telegram_chat_id").
		From("technicians").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var t entities.Technician
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&t.ID, &t.FullName, &t.TelegramChatID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}
