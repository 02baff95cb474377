package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zorel/fulfillment/internal/core/domain"
	"go.uber.org/zap"
)

// GenerateInvoice derives a frozen snapshot from an order: line items
// with the product names and the prices the customer actually paid,
// copied by value. One invoice per order.
func (s *Service) GenerateInvoice(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Invoice, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}

	order, err := s.orders.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.ReadProducts(ctx, ids)
	if err != nil {
		s.logger.Error("Read products for invoice", zap.Error(err))
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	items := make([]domain.InvoiceItem, 0, len(order.Items))
	for _, item := range order.Items {
		qty, err := decimalFromQuantity(item.Quantity)
		if err != nil {
			return nil, err
		}
		net, err := item.UnitPrice.Mul(qty)
		if err != nil {
			return nil, fmt.Errorf("math error: %w", err)
		}
		items = append(items, domain.InvoiceItem{
			ProductID:   item.ProductID,
			ProductName: names[item.ProductID],
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			NetAmount:   net,
		})
	}

	billing := order.ShippingAddress
	if order.BillingAddress != nil {
		billing = *order.BillingAddress
	}
	shipping := order.ShippingAddress

	invoice := &domain.Invoice{
		ID:              uuid.New(),
		OrderID:         order.ID,
		UserID:          order.UserID,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		IssueDate:       time.Now(),
		Items:           items,
		Subtotal:        order.Subtotal,
		TaxAmount:       order.TaxAmount,
		TotalAmount:     order.TotalAmount,
		Status:          domain.InvoiceStatusDraft,
		PaymentMethod:   order.PaymentMethod,
		BillingAddress:  billing,
		ShippingAddress: &shipping,
	}

	created, err := s.invoices.CreateInvoice(ctx, invoice)
	if err != nil {
		s.logger.Error("Create invoice", zap.String("order", order.Number), zap.Error(err))
		return nil, err
	}

	if s.validator != nil {
		// Advisory cross-check; findings are logged, never blocking.
		if ok, notes := s.validator.Validate(ctx, invoiceSnapshot(created)); !ok {
			s.logger.Warn("Invoice validation findings",
				zap.String("invoice", created.Number), zap.String("notes", notes))
		}
	}

	return created, nil
}

func (s *Service) GetInvoice(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Invoice, error) {
	invoice, err := s.invoices.ReadInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() && invoice.UserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return invoice, nil
}

func (s *Service) ListInvoices(ctx context.Context, actor domain.Actor, filter domain.InvoiceFilter) ([]*domain.Invoice, error) {
	if !actor.IsStaff() {
		userID := actor.UserID
		filter.UserID = &userID
	}
	return s.invoices.ListInvoices(ctx, filter)
}

func (s *Service) SendInvoice(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Invoice, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}
	return s.invoices.UpdateInvoiceTx(ctx, id, func(i *domain.Invoice) error {
		return i.Transition(domain.InvoiceStatusSent)
	})
}

// MarkInvoicePaid requires the source order's payment to have settled;
// a pro-forma invoice on an unpaid order cannot be marked paid.
func (s *Service) MarkInvoicePaid(ctx context.Context, actor domain.Actor, id uuid.UUID,
	method domain.PaymentMethod, reference string) (*domain.Invoice, error) {
	if !actor.IsStaff() {
		return nil, domain.ErrForbidden
	}

	invoice, err := s.invoices.ReadInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.ReadOrder(ctx, invoice.OrderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != domain.PaymentStatusCompleted {
		return nil, domain.ErrInvoiceNotPayable
	}

	return s.invoices.UpdateInvoiceTx(ctx, id, func(i *domain.Invoice) error {
		return i.MarkPaid(method, reference, time.Now())
	})
}

func (s *Service) RenderInvoicePDF(ctx context.Context, actor domain.Actor, id uuid.UUID) ([]byte, error) {
	invoice, err := s.GetInvoice(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	pdf, err := s.renderer.RenderPDF(ctx, invoiceSnapshot(invoice))
	if err != nil {
		s.logger.Error("Render invoice", zap.String("invoice", invoice.Number), zap.Error(err))
		return nil, fmt.Errorf("%w: render pdf: %v", domain.ErrExternalService, err)
	}
	return pdf, nil
}

// invoiceSnapshot is the renderer/validator wire form of an invoice.
func invoiceSnapshot(i *domain.Invoice) map[string]any {
	items := make([]map[string]any, 0, len(i.Items))
	for _, item := range i.Items {
		items = append(items, map[string]any{
			"product_id":   item.ProductID.String(),
			"product_name": item.ProductName,
			"quantity":     item.Quantity,
			"unit_price":   item.UnitPrice.String(),
			"net_amount":   item.NetAmount.String(),
		})
	}
	snapshot := map[string]any{
		"invoice_number": i.Number,
		"invoice_date":   i.IssueDate.Format("2006-01-02"),
		"order_id":       i.OrderID.String(),
		"customer_name":  i.CustomerName,
		"customer_email": i.CustomerEmail,
		"items":          items,
		"subtotal":       i.Subtotal.String(),
		"tax_amount":     i.TaxAmount.String(),
		"total_amount":   i.TotalAmount.String(),
		"status":         string(i.Status),
	}
	if i.DueDate != nil {
		snapshot["due_date"] = i.DueDate.Format("2006-01-02")
	}
	return snapshot
}
