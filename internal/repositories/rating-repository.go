package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-order/internal/entities"
)

type RatingRepositoryInterface interface {
	// Create возвращает false, если запрос оценки по заявке уже был создан.
	Create(ctx context.Context, req *entities.RatingRequest) (bool, error)
}

type RatingRepository struct {
	storage *pgxpool.Pool
}

func NewRatingRepository(storage *pgxpool.Pool) RatingRepositoryInterface {
	return &RatingRepository{storage: storage}
}

func (r *RatingRepository) Create(ctx context.Context, req *entities.RatingRequest) (bool, error) {
	query, args, err := psql.
		Insert("rating_requests").
		Columns("order_id", "token").
		Values(req.OrderID, req.Token).
		Suffix("ON CONFLICT (order_id) DO NOTHING RETURNING id, created_at").
		ToSql()
	if err != nil {
		return false, err
	}

	err = r.storage.QueryRow(ctx, query, args...).Scan(&req.ID, &req.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
