package repository

import (
	"context"
	"errors"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/zorel/fulfillment/internal/core/domain"
	"github.com/zorel/fulfillment/internal/core/port"
)

var orderColumns = []string{
	"id", "number", "user_id", "customer_name", "customer_email", "customer_phone",
	"status", "payment_status",
	"subtotal", "discount_amount", "tax_amount", "shipping_cost", "total_amount",
	"coupon_id", "payment_method", "payment_reference", "payment_intent_id", "payment_date",
	"shipping_address", "billing_address", "shipping_company", "tracking_number",
	"customer_notes", "admin_notes", "communication_log",
	"confirmed_at", "shipped_at", "delivered_at", "estimated_delivery",
	"created_at", "updated_at",
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	order := domain.Order{}
	err := row.Scan(
		&order.ID, &order.Number, &order.UserID,
		&order.CustomerName, &order.CustomerEmail, &order.CustomerPhone,
		&order.Status, &order.PaymentStatus,
		&order.Subtotal, &order.DiscountAmount, &order.TaxAmount,
		&order.ShippingCost, &order.TotalAmount,
		&order.CouponID, &order.PaymentMethod, &order.PaymentReference,
		&order.PaymentIntentID, &order.PaymentDate,
		&order.ShippingAddress, &order.BillingAddress,
		&order.ShippingCompany, &order.TrackingNumber,
		&order.CustomerNotes, &order.AdminNotes, &order.CommunicationLog,
		&order.ConfirmedAt, &order.ShippedAt, &order.DeliveredAt, &order.EstimatedDelivery,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &order, nil
}

// CreateOrder runs the whole creation as one transaction: stock
// reservation for every line (in canonical product order to avoid
// deadlock between overlapping orders), the order row, its items and
// the coupon redemption.
func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	reservations := make([]domain.StockReservation, 0, len(order.Items))
	for _, item := range order.Items {
		reservations = append(reservations, domain.StockReservation{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	sort.Slice(reservations, func(i, j int) bool {
		return reservations[i].ProductID.String() < reservations[j].ProductID.String()
	})

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := r.reserveStockTx(ctx, tx, reservations); err != nil {
			return err
		}

		orderSt := r.db.QueryBuilder.
			Insert("orders").
			Columns("id", "number", "user_id", "customer_name", "customer_email", "customer_phone",
				"status", "payment_status",
				"subtotal", "discount_amount", "tax_amount", "shipping_cost", "total_amount",
				"coupon_id", "payment_method",
				"shipping_address", "billing_address", "customer_notes", "communication_log",
				"created_at").
			Values(order.ID, order.Number, order.UserID,
				order.CustomerName, order.CustomerEmail, order.CustomerPhone,
				order.Status, order.PaymentStatus,
				order.Subtotal, order.DiscountAmount, order.TaxAmount,
				order.ShippingCost, order.TotalAmount,
				order.CouponID, order.PaymentMethod,
				order.ShippingAddress, order.BillingAddress,
				order.CustomerNotes, order.CommunicationLog,
				order.CreatedAt)

		sql, args, err := orderSt.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		itemSt := r.db.QueryBuilder.
			Insert("order_items").
			Columns("id", "order_id", "product_id", "quantity", "unit_price", "size", "color")
		for _, item := range order.Items {
			itemSt = itemSt.Values(item.ID, order.ID, item.ProductID,
				item.Quantity, item.UnitPrice, item.Size, item.Color)
		}
		sql, args, err = itemSt.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		if order.CouponID != nil {
			if err := r.redeemCouponTx(ctx, tx, *order.CouponID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return order, nil
}

func (r *Repository) ReadOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.readOrderBy(ctx, sq.Eq{"id": id})
}

func (r *Repository) ReadOrderByPaymentIntent(ctx context.Context, intentID string) (*domain.Order, error) {
	return r.readOrderBy(ctx, sq.Eq{"payment_intent_id": intentID})
}

func (r *Repository) readOrderBy(ctx context.Context, where sq.Eq) (*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		Where(where)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, err
	}

	order.Items, err = r.readOrderItems(ctx, r.db, order.ID)
	if err != nil {
		return nil, err
	}

	return order, nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *Repository) readOrderItems(ctx context.Context, q queryer, orderID uuid.UUID) ([]domain.OrderItem, error) {
	statement := r.db.QueryBuilder.
		Select("id", "order_id", "product_id", "quantity", "unit_price", "size", "color").
		From("order_items").
		Where(sq.Eq{"order_id": orderID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.Quantity, &item.UnitPrice, &item.Size, &item.Color)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *Repository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC")

	if filter.UserID != nil {
		statement = statement.Where(sq.Eq{"user_id": *filter.UserID})
	}
	if filter.Status != nil {
		statement = statement.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.PaymentStatus != nil {
		statement = statement.Where(sq.Eq{"payment_status": *filter.PaymentStatus})
	}
	if filter.CreatedFrom != nil {
		statement = statement.Where(sq.GtOrEq{"created_at": *filter.CreatedFrom})
	}
	if filter.CreatedTo != nil {
		statement = statement.Where(sq.LtOrEq{"created_at": *filter.CreatedTo})
	}
	if filter.Limit > 0 {
		statement = statement.Limit(filter.Limit).Offset(filter.Offset)
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, order := range list {
		order.Items, err = r.readOrderItems(ctx, r.db, order.ID)
		if err != nil {
			return nil, err
		}
	}

	return list, nil
}

// UpdateOrderTx locks the order row, applies fn and writes the mutable
// fields back. Transitions on one order serialize on this lock, and any
// stock release fn performs commits with the same transaction.
func (r *Repository) UpdateOrderTx(ctx context.Context, id uuid.UUID, fn port.UpdateOrderFn) (*domain.Order, error) {
	var updated *domain.Order

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		statement := r.db.QueryBuilder.
			Select(orderColumns...).
			From("orders").
			Where(sq.Eq{"id": id}).
			Suffix("FOR UPDATE")

		sql, args, err := statement.ToSql()
		if err != nil {
			return err
		}

		order, err := scanOrder(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			return err
		}
		order.Items, err = r.readOrderItems(ctx, tx, order.ID)
		if err != nil {
			return err
		}

		if err := fn(order, &txStockReleaser{repo: r, tx: tx}); err != nil {
			return err
		}

		updateSt := r.db.QueryBuilder.
			Update("orders").
			Set("status", order.Status).
			Set("payment_status", order.PaymentStatus).
			Set("payment_reference", order.PaymentReference).
			Set("payment_intent_id", order.PaymentIntentID).
			Set("payment_date", order.PaymentDate).
			Set("tracking_number", order.TrackingNumber).
			Set("shipping_company", order.ShippingCompany).
			Set("admin_notes", order.AdminNotes).
			Set("communication_log", order.CommunicationLog).
			Set("confirmed_at", order.ConfirmedAt).
			Set("shipped_at", order.ShippedAt).
			Set("delivered_at", order.DeliveredAt).
			Set("estimated_delivery", order.EstimatedDelivery).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"id": id})

		sql, args, err = updateSt.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
