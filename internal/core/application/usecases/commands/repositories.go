// Package commands contains business operations that modify system state.
// Every command carries the acting identity; handlers authorize it, open a unit
// of work, drive the aggregates and commit.
package commands

import (
	"context"

	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
)

// maxNumberAttempts bounds how often a create handler retries after an order
// or invoice number collision.
const maxNumberAttempts = 5

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler asks only for the repositories it writes.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// RouteRepoFactory provides access to route repository within a transaction.
	RouteRepoFactory interface {
		RouteRepository() ports.RouteRepository
	}

	// InvoiceRepoFactory provides access to invoice repository within a transaction.
	InvoiceRepoFactory interface {
		InvoiceRepository() ports.InvoiceRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// RouteUoW writes a route together with the orders it assigns.
	RouteUoW interface {
		TxManager
		OrderRepoFactory
		RouteRepoFactory
	}

	// RouteUoWFactory creates new route unit of work instances.
	RouteUoWFactory interface {
		Create() RouteUoW
	}

	// InvoiceUoW writes an invoice together with the orders it invoices or completes.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   inv, err := uow.InvoiceRepository().Get(ctx, id)
	//   orders, err := uow.OrderRepository().GetMany(ctx, inv.Orders())
	//   // ... settle
	//
	//   err = uow.Commit(ctx)
	InvoiceUoW interface {
		TxManager
		OrderRepoFactory
		InvoiceRepoFactory
	}

	// InvoiceUoWFactory creates new invoice unit of work instances.
	InvoiceUoWFactory interface {
		Create() InvoiceUoW
	}
)

func updateOrders(ctx context.Context, repo ports.OrderRepository, orders []*order.Order) error {
	for _, o := range orders {
		if err := repo.Update(ctx, o); err != nil {
			return err
		}
	}
	return nil
}
