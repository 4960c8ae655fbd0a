// Package queries contains read operations for retrieving system state.
// Every query carries the acting identity and narrows the result to what that
// role may see: clients their own orders and invoices, drivers their own work.
package queries

import (
	"context"

	"laundry/internal/core/domain/model/invoice"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/route"
	"laundry/internal/core/ports"
)

// Read side views of the repositories. Queries run outside a transaction.
type (
	OrderReader interface {
		Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
		Find(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error)
	}

	RouteReader interface {
		Get(ctx context.Context, id kernel.UUID) (*route.Route, error)
		Find(ctx context.Context, filter ports.RouteFilter) ([]*route.Route, error)
	}

	InvoiceReader interface {
		Get(ctx context.Context, id kernel.UUID) (*invoice.Invoice, error)
		Find(ctx context.Context, filter ports.InvoiceFilter) ([]*invoice.Invoice, error)
	}
)
