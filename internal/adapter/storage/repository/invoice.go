package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/zorel/fulfillment/internal/core/domain"
	"github.com/zorel/fulfillment/internal/core/port"
)

var invoiceColumns = []string{
	"id", "number", "order_id", "user_id", "customer_name", "customer_email",
	"issue_date", "due_date", "items", "subtotal", "tax_amount", "total_amount",
	"status", "payment_method", "payment_date", "payment_reference",
	"billing_address", "shipping_address", "created_at", "updated_at",
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	invoice := domain.Invoice{}
	err := row.Scan(
		&invoice.ID, &invoice.Number, &invoice.OrderID, &invoice.UserID,
		&invoice.CustomerName, &invoice.CustomerEmail,
		&invoice.IssueDate, &invoice.DueDate, &invoice.Items,
		&invoice.Subtotal, &invoice.TaxAmount, &invoice.TotalAmount,
		&invoice.Status, &invoice.PaymentMethod,
		&invoice.PaymentDate, &invoice.PaymentReference,
		&invoice.BillingAddress, &invoice.ShippingAddress,
		&invoice.CreatedAt, &invoice.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// CreateInvoice allocates the human-facing number inside the insert
// from a sequence, so two concurrent generations can never produce the
// same number. The unique order_id constraint enforces one invoice per
// order.
func (r *Repository) CreateInvoice(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	statement := r.db.QueryBuilder.
		Insert("invoices").
		Columns("id", "number", "order_id", "user_id", "customer_name", "customer_email",
			"issue_date", "due_date", "items", "subtotal", "tax_amount", "total_amount",
			"status", "payment_method", "billing_address", "shipping_address").
		Values(invoice.ID,
			sq.Expr("'INV-' || to_char(current_date, 'YYYY') || '-' || lpad(nextval('invoice_numbers')::text, 6, '0')"),
			invoice.OrderID, invoice.UserID,
			invoice.CustomerName, invoice.CustomerEmail,
			invoice.IssueDate, invoice.DueDate, invoice.Items,
			invoice.Subtotal, invoice.TaxAmount, invoice.TotalAmount,
			invoice.Status, invoice.PaymentMethod,
			invoice.BillingAddress, invoice.ShippingAddress).
		Suffix("RETURNING number, created_at, updated_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, sql, args...).
		Scan(&invoice.Number, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return invoice, nil
}

func (r *Repository) ReadInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	return r.readInvoiceBy(ctx, sq.Eq{"id": id})
}

func (r *Repository) ReadInvoiceByOrder(ctx context.Context, orderID uuid.UUID) (*domain.Invoice, error) {
	return r.readInvoiceBy(ctx, sq.Eq{"order_id": orderID})
}

func (r *Repository) readInvoiceBy(ctx context.Context, where sq.Eq) (*domain.Invoice, error) {
	statement := r.db.QueryBuilder.
		Select(invoiceColumns...).
		From("invoices").
		Where(where)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	return scanInvoice(r.db.QueryRow(ctx, sql, args...))
}

func (r *Repository) ListInvoices(ctx context.Context, filter domain.InvoiceFilter) ([]*domain.Invoice, error) {
	statement := r.db.QueryBuilder.
		Select(invoiceColumns...).
		From("invoices").
		OrderBy("created_at DESC")

	if filter.OrderID != nil {
		statement = statement.Where(sq.Eq{"order_id": *filter.OrderID})
	}
	if filter.UserID != nil {
		statement = statement.Where(sq.Eq{"user_id": *filter.UserID})
	}
	if filter.Status != nil {
		statement = statement.Where(sq.Eq{"status": *filter.Status})
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

	list := make([]*domain.Invoice, 0)
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, invoice)
	}

	return list, rows.Err()
}

// UpdateInvoiceTx locks the invoice row and writes back only the
// payment-confirmation fields and status. Items and totals are frozen
// at creation and deliberately absent from the UPDATE.
func (r *Repository) UpdateInvoiceTx(ctx context.Context, id uuid.UUID, fn port.UpdateInvoiceFn) (*domain.Invoice, error) {
	var updated *domain.Invoice

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		statement := r.db.QueryBuilder.
			Select(invoiceColumns...).
			From("invoices").
			Where(sq.Eq{"id": id}).
			Suffix("FOR UPDATE")

		sql, args, err := statement.ToSql()
		if err != nil {
			return err
		}

		invoice, err := scanInvoice(tx.QueryRow(ctx, sql, args...))
		if err != nil {
			return err
		}

		if err := fn(invoice); err != nil {
			return err
		}

		updateSt := r.db.QueryBuilder.
			Update("invoices").
			Set("status", invoice.Status).
			Set("payment_method", invoice.PaymentMethod).
			Set("payment_date", invoice.PaymentDate).
			Set("payment_reference", invoice.PaymentReference).
			Set("due_date", invoice.DueDate).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"id": id})

		sql, args, err = updateSt.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}
