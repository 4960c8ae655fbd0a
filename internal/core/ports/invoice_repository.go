package ports

import (
	"context"
	"time"

	"laundry/internal/core/domain/model/invoice"
	"laundry/internal/core/domain/model/kernel"
)

// InvoiceFilter narrows an invoice listing. From and To bound the issue date inclusively.
type InvoiceFilter struct {
	Status *invoice.Status
	Client *kernel.UUID
	From   *time.Time
	To     *time.Time
}

// InvoiceRepository defines the persistence contract for invoice aggregates.
type InvoiceRepository interface {
	// Add persists a new invoice. A duplicate number is reported as errs.ErrConflict.
	Add(ctx context.Context, aggregate *invoice.Invoice) error

	// Update persists the status and appends payments not yet stored.
	Update(ctx context.Context, aggregate *invoice.Invoice) error

	// Get retrieves an invoice by ID or returns errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*invoice.Invoice, error)

	// Find lists invoices matching the filter, newest issue date first.
	Find(ctx context.Context, filter InvoiceFilter) ([]*invoice.Invoice, error)

	// MarkOverdue flips every pending invoice due before now to overdue in a
	// single statement and returns how many rows changed.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}
