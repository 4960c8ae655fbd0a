package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Writes to an order and to the route or invoice that drove it are committed together.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and then publishes the status
	// events of every order written through it.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Calling it after a successful Commit is a no-op.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// RouteRepository returns a RouteRepository bound to the current transaction.
	RouteRepository() RouteRepository

	// InvoiceRepository returns an InvoiceRepository bound to the current transaction.
	InvoiceRepository() InvoiceRepository
}
