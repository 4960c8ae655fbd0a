package queries

import (
	"context"
	"errors"

	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/route"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/guard"
)

var (
	ErrListRoutesQueryIsNotConstructed = errors.New(
		"ListRoutesQuery must be created via NewListRoutesQuery constructor",
	)
	ErrGetRouteQueryIsNotConstructed = errors.New(
		"GetRouteQuery must be created via NewGetRouteQuery constructor",
	)
)

// ListRoutesQuery lists routes, latest route date first. Drivers see only their own.
type ListRoutesQuery struct {
	actor  access.Actor
	filter ports.RouteFilter
	guard  guard.ConstructorGuard
}

func NewListRoutesQuery(actor access.Actor, filter ports.RouteFilter) (ListRoutesQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListRoutesQuery{}, err
	}
	return ListRoutesQuery{actor: actor, filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q ListRoutesQuery) Validate() error {
	return q.guard.Validate(ErrListRoutesQueryIsNotConstructed)
}

func (q ListRoutesQuery) Filter() ports.RouteFilter {
	f := q.filter
	if q.actor.Role == access.Driver {
		id := q.actor.UserID
		f.Driver = &id
	}
	return f
}

type ListRoutesQueryHandler struct {
	routes RouteReader
}

func NewListRoutesQueryHandler(routes RouteReader) ListRoutesQueryHandler {
	return ListRoutesQueryHandler{routes: routes}
}

func (h ListRoutesQueryHandler) Handle(ctx context.Context, query ListRoutesQuery) ([]*route.Route, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.routes.Find(ctx, query.Filter())
}

type GetRouteQuery struct {
	actor   access.Actor
	routeID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetRouteQuery(actor access.Actor, routeID kernel.UUID) (GetRouteQuery, error) {
	if err := errors.Join(actor.Validate(), routeID.Validate()); err != nil {
		return GetRouteQuery{}, err
	}
	return GetRouteQuery{actor: actor, routeID: routeID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetRouteQuery) Validate() error {
	return q.guard.Validate(ErrGetRouteQueryIsNotConstructed)
}

type GetRouteQueryHandler struct {
	routes RouteReader
}

func NewGetRouteQueryHandler(routes RouteReader) GetRouteQueryHandler {
	return GetRouteQueryHandler{routes: routes}
}

func (h GetRouteQueryHandler) Handle(ctx context.Context, query GetRouteQuery) (*route.Route, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.routes.Get(ctx, query.routeID)
}
