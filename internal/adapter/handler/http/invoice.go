package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/zorel/fulfillment/internal/core/domain"
	"github.com/zorel/fulfillment/internal/core/port"
	"go.uber.org/zap"
)

type InvoiceHandler struct {
	Handler
	service port.Service
}

func NewInvoiceHandler(service port.Service, logger *zap.Logger) (*InvoiceHandler, error) {
	return &InvoiceHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type invoiceResponse struct {
	ID      uuid.UUID `json:"id"`
	Number  string    `json:"number"`
	OrderID uuid.UUID `json:"order_id"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`

	IssueDate time.Time  `json:"issue_date"`
	DueDate   *time.Time `json:"due_date,omitempty"`

	Items       []domain.InvoiceItem `json:"items"`
	Subtotal    decimal.Decimal      `json:"subtotal"`
	TaxAmount   decimal.Decimal      `json:"tax_amount"`
	TotalAmount decimal.Decimal      `json:"total_amount"`

	Status           string     `json:"status"`
	PaymentMethod    string     `json:"payment_method,omitempty"`
	PaymentDate      *time.Time `json:"payment_date,omitempty"`
	PaymentReference string     `json:"payment_reference,omitempty"`

	BillingAddress  domain.Address  `json:"billing_address"`
	ShippingAddress *domain.Address `json:"shipping_address,omitempty"`
}

func newInvoiceResponse(i *domain.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:               i.ID,
		Number:           i.Number,
		OrderID:          i.OrderID,
		CustomerName:     i.CustomerName,
		CustomerEmail:    i.CustomerEmail,
		IssueDate:        i.IssueDate,
		DueDate:          i.DueDate,
		Items:            i.Items,
		Subtotal:         i.Subtotal,
		TaxAmount:        i.TaxAmount,
		TotalAmount:      i.TotalAmount,
		Status:           string(i.Status),
		PaymentMethod:    string(i.PaymentMethod),
		PaymentDate:      i.PaymentDate,
		PaymentReference: i.PaymentReference,
		BillingAddress:   i.BillingAddress,
		ShippingAddress:  i.ShippingAddress,
	}
}

func (ih *InvoiceHandler) GenerateInvoice(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ih.handleValidationError(ctx, err)
		return
	}

	invoice, err := ih.service.GenerateInvoice(ctx, actorFrom(ctx), orderID)
	if err != nil {
		ih.handleError(ctx, err)
		return
	}

	ih.handleSuccessWithStatus(ctx, newInvoiceResponse(invoice), http.StatusCreated)
}

func (ih *InvoiceHandler) GetInvoice(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ih.handleValidationError(ctx, err)
		return
	}

	invoice, err := ih.service.GetInvoice(ctx, actorFrom(ctx), id)
	if err != nil {
		ih.handleError(ctx, err)
		return
	}

	ih.handleSuccess(ctx, newInvoiceResponse(invoice))
}

type listInvoicesRequest struct {
	Status string `form:"status"`
	Limit  uint64 `form:"limit"`
	Offset uint64 `form:"offset"`
}

func (ih *InvoiceHandler) ListInvoices(ctx *gin.Context) {
	req := listInvoicesRequest{}
	err := ctx.ShouldBindQuery(&req)
	if err != nil {
		ih.handleValidationError(ctx, err)
		return
	}

	filter := domain.InvoiceFilter{Limit: req.Limit, Offset: req.Offset}
	if req.Status != "" {
		status := domain.InvoiceStatus(req.Status)
		filter.Status = &status
	}

	list, err := ih.service.ListInvoices(ctx, actorFrom(ctx), filter)
	if err != nil {
		ih.handleError(ctx, err)
		return
	}

	result := make([]invoiceResponse, 0, len(list))
	for _, i := range list {
		result = append(result, newInvoiceResponse(i))
	}

	ih.handleSuccess(ctx, result)
}

func (ih *InvoiceHandler) SendInvoice(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ih.handleValidationError(ctx, err)
		return
	}

	invoice, err := ih.service.SendInvoice(ctx, actorFrom(ctx), id)
	if err != nil {
		ih.handleError(ctx, err)
		return
	}

	ih.handleSuccess(ctx, newInvoiceResponse(invoice))
}

type markPaidRequest struct {
	PaymentMethod    string `json:"payment_method" binding:"required"`
	PaymentReference string `json:"payment_reference"`
}

func (ih *InvoiceHandler) MarkInvoicePaid(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ih.handleValidationError(ctx, err)
		return
	}

	req := markPaidRequest{}
	err = ctx.ShouldBindBodyWithJSON(&req)
	if err != nil {
		ih.handleValidationError(ctx, err)
		return
	}

	invoice, err := ih.service.MarkInvoicePaid(ctx, actorFrom(ctx), id,
		domain.PaymentMethod(req.PaymentMethod), req.PaymentReference)
	if err != nil {
		ih.handleError(ctx, err)
		return
	}

	ih.handleSuccess(ctx, newInvoiceResponse(invoice))
}

func (ih *InvoiceHandler) DownloadInvoicePDF(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ih.handleValidationError(ctx, err)
		return
	}

	pdf, err := ih.service.RenderInvoicePDF(ctx, actorFrom(ctx), id)
	if err != nil {
		ih.handleError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="invoice.pdf"`)
	ctx.Data(http.StatusOK, "application/pdf", pdf)
}
