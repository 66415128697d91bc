package repository

import (
	"context"
	"time"

	"github.com/invoiceb2b/financing-api/internal/domain"
)

type InvoiceRepository interface {
	// Create inserts an invoice. Returns domain.ErrDuplicateInvoice when the
	// business already has an invoice with this number.
	Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	// FindByID is scoped to the owning business.
	FindByID(ctx context.Context, id, businessID string) (*domain.Invoice, error)
	// List returns one page plus the unpaged total count. Soft-deleted
	// invoices are excluded.
	List(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, int, error)
	Update(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	// MarkOverdue flips unpaid invoices whose due date has passed and
	// returns how many rows changed.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}
