package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/zorel/fulfillment/internal/core/domain"
)

func (r *Repository) ReadStock(ctx context.Context, productID uuid.UUID) (*domain.Stock, error) {
	statement := r.db.QueryBuilder.
		Select("product_id", "available_quantity", "updated_at").
		From("stock").
		Where(sq.Eq{"product_id": productID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	stock := domain.Stock{}
	err = r.db.QueryRow(ctx, sql, args...).
		Scan(&stock.ProductID, &stock.AvailableQuantity, &stock.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &stock, nil
}

// SetStock is the administrative restock path: an absolute write, not
// an increment, and it creates the row for a product's first stock.
func (r *Repository) SetStock(ctx context.Context, productID uuid.UUID, quantity int32) (*domain.Stock, error) {
	statement := r.db.QueryBuilder.
		Insert("stock").
		Columns("product_id", "available_quantity").
		Values(productID, quantity).
		Suffix("ON CONFLICT (product_id) DO UPDATE SET available_quantity = ?, updated_at = now()", quantity).
		Suffix("RETURNING product_id, available_quantity, updated_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	stock := domain.Stock{}
	err = r.db.QueryRow(ctx, sql, args...).
		Scan(&stock.ProductID, &stock.AvailableQuantity, &stock.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &stock, nil
}

// Release outside an order transaction, for compensations issued by
// callers that do not hold an order lock.
func (r *Repository) Release(ctx context.Context, productID uuid.UUID, quantity int32) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return r.releaseStockTx(ctx, tx, productID, quantity)
	})
}
