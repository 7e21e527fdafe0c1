package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-order/internal/entities"
)

type OrderHistoryRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, history *entities.OrderHistory) error
	FindByOrderID(ctx context.Context, orderID uint64, limit, offset uint64) ([]entities.OrderHistory, error)
}

type OrderHistoryRepository struct {
	storage *pgxpool.Pool
}

func NewOrderHistoryRepository(storage *pgxpool.Pool) OrderHistoryRepositoryInterface {
	return &OrderHistoryRepository{storage: storage}
}

func (r *OrderHistoryRepository) CreateInTx(ctx context.Context, tx pgx.Tx, history *entities.OrderHistory) error {
	var actions interface{}
	if len(history.Actions) > 0 {
		actions = history.Actions
	}

	query, args, err := psql.
		Insert("order_history").
		Columns("order_id", "user_id", "event_type", "old_value", "new_value", "comment", "actions", "skip_reason", "tx_id").
		Values(history.OrderID, history.UserID, history.EventType, history.OldValue, history.NewValue,
			history.Comment, actions, history.SkipReason, history.TxID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	return tx.QueryRow(ctx, query, args...).Scan(&history.ID, &history.CreatedAt)
}

func (r *OrderHistoryRepository) FindByOrderID(ctx context.Context, orderID uint64, limit, offset uint64) ([]entities.OrderHistory, error) {
	builder := psql.
		Select("id", "order_id", "user_id", "event_type", "old_value", "new_value", "comment", "actions", "skip_reason", "tx_id", "created_at").
		From("order_history").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("created_at ASC", "id ASC")
	if limit > 0 {
		builder = builder.Limit(limit).Offset(offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []entities.OrderHistory
	for rows.Next() {
		var h entities.OrderHistory
		if err := rows.Scan(
			&h.ID, &h.OrderID, &h.UserID, &h.EventType, &h.OldValue, &h.NewValue,
			&h.Comment, &h.Actions, &h.SkipReason, &h.TxID, &h.CreatedAt,
		); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
