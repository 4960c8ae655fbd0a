package ports

import (
	"context"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/route"
)

// RouteFilter narrows a route listing. Date matches the whole calendar day
// [Date 00:00, Date+1 00:00) in UTC.
type RouteFilter struct {
	Status *route.Status
	Driver *kernel.UUID
	Area   *string
	Date   *time.Time
}

// RouteRepository defines the persistence contract for route aggregates.
type RouteRepository interface {
	Add(ctx context.Context, aggregate *route.Route) error
	Update(ctx context.Context, aggregate *route.Route) error

	// Get retrieves a route by ID or returns errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*route.Route, error)

	// Find lists routes matching the filter, latest route date first.
	Find(ctx context.Context, filter RouteFilter) ([]*route.Route, error)

	Delete(ctx context.Context, id kernel.UUID) error
}
