package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/zorel/fulfillment/internal/adapter/storage"
	"github.com/zorel/fulfillment/internal/core/domain"
)

type Repository struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// reserveStockTx decrements availability for every line, or reports the
// full set of products that lacked stock. The conditional UPDATE with
// an affected-rows check is what makes check-then-decrement safe under
// concurrent reservations; the enclosing transaction makes the batch
// all-or-nothing.
func (r *Repository) reserveStockTx(ctx context.Context, tx pgx.Tx, reservations []domain.StockReservation) error {
	var failed []uuid.UUID
	for _, res := range reservations {
		statement := r.db.QueryBuilder.
			Update("stock").
			Set("available_quantity", sq.Expr("available_quantity - ?", res.Quantity)).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"product_id": res.ProductID}).
			Where(sq.Expr("available_quantity >= ?", res.Quantity))

		sql, args, err := statement.ToSql()
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			failed = append(failed, res.ProductID)
		}
	}

	if len(failed) > 0 {
		return &domain.InsufficientStockError{ProductIDs: failed}
	}
	return nil
}

func (r *Repository) releaseStockTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int32) error {
	statement := r.db.QueryBuilder.
		Update("stock").
		Set("available_quantity", sq.Expr("available_quantity + ?", quantity)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"product_id": productID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, sql, args...)
	return err
}

// redeemCouponTx is the atomic used_count increment. The WHERE clause
// rejects the increment once the limit is reached, so two orders racing
// for the last redemption cannot both win.
func (r *Repository) redeemCouponTx(ctx context.Context, tx pgx.Tx, couponID uuid.UUID) error {
	statement := r.db.QueryBuilder.
		Update("coupons").
		Set("used_count", sq.Expr("used_count + 1")).
		Set("status", sq.Expr(
			"CASE WHEN usage_limit IS NOT NULL AND used_count + 1 >= usage_limit THEN ? ELSE status END",
			domain.CouponStatusUsedUp)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": couponID}).
		Where(sq.Expr("(usage_limit IS NULL OR used_count < usage_limit)"))

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCouponUsageExceeded
	}
	return nil
}

// txStockReleaser exposes stock release to order-update closures, bound
// to the transaction that holds the order row lock.
type txStockReleaser struct {
	repo *Repository
	tx   pgx.Tx
}

func (t *txStockReleaser) Release(ctx context.Context, productID uuid.UUID, quantity int32) error {
	return t.repo.releaseStockTx(ctx, t.tx, productID, quantity)
}
