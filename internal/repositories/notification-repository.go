package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-order/internal/entities"
)

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *entities.Notification) error
}

type NotificationRepository struct {
	storage *pgxpool.Pool
}

func NewNotificationRepository(storage *pgxpool.Pool) NotificationRepositoryInterface {
	return &NotificationRepository{storage: storage}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	query, args, err := psql.
		Insert("transition_notifications").
		Columns("id", "order_id", "actor_id", "technician_id", "kind", "from_status", "to_status", "notes", "reason").
		Values(n.ID, n.OrderID, n.ActorID, n.TechnicianID, n.Kind, n.FromStatus, n.ToStatus, n.Notes, n.Reason).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return err
	}
	return r.storage.QueryRow(ctx, query, args...).Scan(&n.CreatedAt)
}
