package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-order/internal/entities"
)

type CheckinRepositoryInterface interface {
	Create(ctx context.Context, checkin *entities.TechnicianCheckin) error
}

type CheckinRepository struct {
	storage *pgxpool.Pool
}

func NewCheckinRepository(storage *pgxpool.Pool) CheckinRepositoryInterface {
	return &CheckinRepository{storage: storage}
}

func (r *CheckinRepository) Create(ctx context.Context, checkin *entities.TechnicianCheckin) error {
	query, args, err := psql.
		Insert("technician_checkins").
		Columns("order_id", "technician_id", "kind").
		Values(checkin.OrderID, checkin.TechnicianID, checkin.Kind).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	return r.storage.QueryRow(ctx, query, args...).Scan(&checkin.ID, &checkin.CreatedAt)
}
