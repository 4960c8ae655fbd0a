// Package ports defines the contracts between the laundry domain and infrastructure.
// Repositories persist whole aggregates; the unit of work binds them to one transaction.
package ports

import (
	"context"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
)

// OrderFilter narrows an order listing. Nil fields do not filter.
// From and To bound created_at and are both inclusive.
type OrderFilter struct {
	Status      *order.Status
	Client      *kernel.UUID
	DeliverID   *kernel.UUID
	ServiceType *order.ServiceType
	From        *time.Time
	To          *time.Time
}

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order with its items, history and photos.
	// A duplicate order number is reported as errs.ErrConflict.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order. Items are replaced,
	// history entries and photos not yet stored are appended.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by ID or returns errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetMany retrieves every listed order. A missing ID fails the whole call
	// with errs.ErrObjectNotFound.
	GetMany(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error)

	// Find lists orders matching the filter, newest first.
	Find(ctx context.Context, filter OrderFilter) ([]*order.Order, error)

	// Delete removes an order and everything it owns.
	Delete(ctx context.Context, id kernel.UUID) error
}
