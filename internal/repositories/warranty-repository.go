package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"service-order/internal/entities"
)

type WarrantyRepositoryInterface interface {
	// CreateBatch создаёт гарантии; уже активированные позиции пропускаются. Возвращает число новых.
	CreateBatch(ctx context.Context, warranties []entities.Warranty) (int, error)
	FindByOrderID(ctx context.Context, orderID uint64) ([]entities.Warranty, error)
}

type WarrantyRepository struct {
	storage   *pgxpool.Pool
	txManager TxManagerInterface
}

func NewWarrantyRepository(storage *pgxpool.Pool, txManager TxManagerInterface) WarrantyRepositoryInterface {
	return &WarrantyRepository{storage: storage, txManager: txManager}
}

func (r *WarrantyRepository) CreateBatch(ctx context.Context, warranties []entities.Warranty) (int, error) {
	if len(warranties) == 0 {
		return 0, nil
	}

	created := 0
	err := r.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for _, w := range warranties {
			query, args, err := psql.
				Insert("warranties").
				Columns("order_id", "item_id", "starts_at", "expires_at", "activated_by").
				Values(w.OrderID, w.ItemID, w.StartsAt, w.ExpiresAt, w.ActivatedBy).
				Suffix("ON CONFLICT (item_id) DO NOTHING").
				ToSql()
			if err != nil {
				return err
			}
			tag, err := tx.Exec(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("ошибка активации гарантии для позиции %d: %w", w.ItemID, err)
			}
			created += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (r *WarrantyRepository) FindByOrderID(ctx context.Context, orderID uint64) ([]entities.Warranty, error) {
	query, args, err := psql.
		Select("id", "order_id", "item_id", "starts_at", "expires_at", "activated_by").
		From("warranties").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("item_id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entities.Warranty
	for rows.Next() {
		var w entities.Warranty
		if err := rows.Scan(&w.ID, &w.OrderID, &w.ItemID, &w.StartsAt, &w.ExpiresAt, &w.ActivatedBy); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
