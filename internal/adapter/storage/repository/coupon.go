package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/zorel/fulfillment/internal/core/domain"
)

var couponColumns = []string{
	"id", "code", "description", "discount_type", "value",
	"minimum_order_amount", "maximum_discount", "usage_limit", "used_count",
	"status", "valid_from", "valid_until", "created_at", "updated_at",
}

func scanCoupon(row pgx.Row) (*domain.Coupon, error) {
	coupon := domain.Coupon{}
	err := row.Scan(
		&coupon.ID, &coupon.Code, &coupon.Description,
		&coupon.DiscountType, &coupon.Value,
		&coupon.MinimumOrderAmount, &coupon.MaximumDiscount,
		&coupon.UsageLimit, &coupon.UsedCount,
		&coupon.Status, &coupon.ValidFrom, &coupon.ValidUntil,
		&coupon.CreatedAt, &coupon.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *Repository) CreateCoupon(ctx context.Context, coupon *domain.Coupon) (*domain.Coupon, error) {
	statement := r.db.QueryBuilder.
		Insert("coupons").
		Columns("id", "code", "description", "discount_type", "value",
			"minimum_order_amount", "maximum_discount", "usage_limit", "used_count",
			"status", "valid_from", "valid_until").
		Values(coupon.ID, coupon.Code, coupon.Description,
			coupon.DiscountType, coupon.Value,
			coupon.MinimumOrderAmount, coupon.MaximumDiscount,
			coupon.UsageLimit, coupon.UsedCount,
			coupon.Status, coupon.ValidFrom, coupon.ValidUntil)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}
	return coupon, nil
}

// UpdateCoupon rewrites the administrative fields. used_count is only
// ever touched by redeemCouponTx.
func (r *Repository) UpdateCoupon(ctx context.Context, coupon *domain.Coupon) (*domain.Coupon, error) {
	statement := r.db.QueryBuilder.
		Update("coupons").
		Set("description", coupon.Description).
		Set("discount_type", coupon.DiscountType).
		Set("value", coupon.Value).
		Set("minimum_order_amount", coupon.MinimumOrderAmount).
		Set("maximum_discount", coupon.MaximumDiscount).
		Set("usage_limit", coupon.UsageLimit).
		Set("status", coupon.Status).
		Set("valid_from", coupon.ValidFrom).
		Set("valid_until", coupon.ValidUntil).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"code": coupon.Code})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrDataNotFound
	}

	return r.ReadCouponByCode(ctx, coupon.Code)
}

func (r *Repository) ReadCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	statement := r.db.QueryBuilder.
		Select(couponColumns...).
		From("coupons").
		Where(sq.Eq{"code": code})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	return scanCoupon(r.db.QueryRow(ctx, sql, args...))
}

func (r *Repository) ListCoupons(ctx context.Context) ([]*domain.Coupon, error) {
	statement := r.db.QueryBuilder.
		Select(couponColumns...).
		From("coupons").
		OrderBy("created_at DESC")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Coupon, 0)
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, coupon)
	}

	return list, rows.Err()
}
