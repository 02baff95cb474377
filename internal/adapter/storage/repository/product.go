package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/zorel/fulfillment/internal/core/domain"
)

var productColumns = []string{"id", "name", "sku", "price", "is_active", "created_at", "updated_at"}

func (r *Repository) ReadProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	statement := r.db.QueryBuilder.
		Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	product := domain.Product{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&product.ID, &product.Name, &product.SKU, &product.Price,
		&product.IsActive, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &product, nil
}

func (r *Repository) ReadProducts(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	statement := r.db.QueryBuilder.
		Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": ids})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Product, 0, len(ids))
	for rows.Next() {
		product := domain.Product{}
		err := rows.Scan(
			&product.ID, &product.Name, &product.SKU, &product.Price,
			&product.IsActive, &product.CreatedAt, &product.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, &product)
	}

	return list, rows.Err()
}
