package port

import "context"

//go:generate mockgen -source=renderer.go -destination=mock/renderer.go -package=mock

// InvoiceRenderer turns a frozen invoice snapshot into a PDF document.
type InvoiceRenderer interface {
	RenderPDF(ctx context.Context, snapshot map[string]any) ([]byte, error)
}

// InvoiceValidator cross-checks an invoice snapshot. Advisory only: a
// negative result or an unreachable validator never blocks issuing.
type InvoiceValidator interface {
	Validate(ctx context.Context, snapshot map[string]any) (ok bool, notes string)
}
