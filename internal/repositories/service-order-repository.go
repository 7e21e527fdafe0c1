package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-order/internal/entities"
	apperrors "service-order/pkg/errors"
)

const serviceOrderTable = "service_orders"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type ServiceOrderRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.ServiceOrder, error)
	// CompareAndSetStatus меняет статус, только если он всё ещё равен change.Expected.
	// Вместе со статусом в той же транзакции пишется запись истории.
	CompareAndSetStatus(ctx context.Context, change entities.StatusChange) (bool, error)
}

type ServiceOrderRepository struct {
	storage     *pgxpool.Pool
	txManager   TxManagerInterface
	historyRepo OrderHistoryRepositoryInterface
}

func NewServiceOrderRepository(storage *pgxpool.Pool, txManager TxManagerInterface, historyRepo OrderHistoryRepositoryInterface) ServiceOrderRepositoryInterface {
	return &ServiceOrderRepository{storage: storage, txManager: txManager, historyRepo: historyRepo}
}

func (r *ServiceOrderRepository) FindByID(ctx context.Context, id uint64) (*entities.ServiceOrder, error) {
	query, args, err := psql.
		Select("id", "attendance_type", "status", "technician_id", "client_name", "created_at", "updated_at").
		From(serviceOrderTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var order entities.ServiceOrder
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&order.ID, &order.AttendanceType, &order.Status, &order.TechnicianID,
		&order.ClientName, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения заявки %d: %w", id, err)
	}

	items, err := r.findItems(ctx, r.storage, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *ServiceOrderRepository) findItems(ctx context.Context, q querier, orderID uint64) ([]entities.ServiceItem, error) {
	query, args, err := psql.
		Select("id", "order_id", "attendance_type", "equipment", "warranty_days").
		From("service_items").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения позиций заявки %d: %w", orderID, err)
	}
	defer rows.Close()

	var items []entities.ServiceItem
	for rows.Next() {
		var item entities.ServiceItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.AttendanceType, &item.Equipment, &item.WarrantyDays); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *ServiceOrderRepository) CompareAndSetStatus(ctx context.Context, change entities.StatusChange) (bool, error) {
	applied := false
	err := r.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		query, args, err := psql.
			Update(serviceOrderTable).
			Set("status", change.New).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"id": change.OrderID, "status": change.Expected}).
			ToSql()
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("ошибка обновления статуса заявки %d: %w", change.OrderID, err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		applied = true

		return r.historyRepo.CreateInTx(ctx, tx, historyFromChange(change))
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func historyFromChange(change entities.StatusChange) *entities.OrderHistory {
	h := &entities.OrderHistory{
		OrderID:   change.OrderID,
		UserID:    change.ActorID,
		EventType: change.EventType,
		Actions:   change.Actions,
	}
	h.OldValue.SetValid(change.Expected.String())
	h.NewValue.SetValid(change.New.String())
	if change.Comment != "" {
		h.Comment.SetValid(change.Comment)
	}
	if change.SkipReason != "" {
		h.SkipReason.SetValid(change.SkipReason)
	}
	if change.TxID != uuid.Nil {
		txID := change.TxID
		h.TxID = &txID
	}
	return h
}
