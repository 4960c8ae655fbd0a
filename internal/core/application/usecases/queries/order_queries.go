package queries

import (
	"context"
	"errors"

	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/guard"
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersQuery constructor",
	)
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// ListOrdersQuery lists orders, newest first.
//
// Example:
//
//	status := order.Washing
//	query, err := NewListOrdersQuery(actor, ports.OrderFilter{Status: &status})
//	orders, err := handler.Handle(ctx, query)
type ListOrdersQuery struct {
	actor  access.Actor
	filter ports.OrderFilter
	guard  guard.ConstructorGuard
}

func NewListOrdersQuery(actor access.Actor, filter ports.OrderFilter) (ListOrdersQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{actor: actor, filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// Filter returns the requested filter with the role scope applied.
// A client only ever sees its own orders and a driver only those it delivers,
// whatever client or driver the caller asked for.
func (q ListOrdersQuery) Filter() ports.OrderFilter {
	f := q.filter
	switch q.actor.Role {
	case access.Client:
		id := q.actor.UserID
		f.Client = &id
	case access.Driver:
		id := q.actor.UserID
		f.DeliverID = &id
	}
	return f
}

type ListOrdersQueryHandler struct {
	orders OrderReader
}

func NewListOrdersQueryHandler(orders OrderReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{orders: orders}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.orders.Find(ctx, query.Filter())
}

// GetOrderQuery fetches one order. Clients may only fetch their own.
type GetOrderQuery struct {
	actor   access.Actor
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(actor access.Actor, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

type GetOrderQueryHandler struct {
	orders OrderReader
}

func NewGetOrderQueryHandler(orders OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	o, err := h.orders.Get(ctx, query.orderID)
	if err != nil {
		return nil, err
	}

	if err = o.VisibleTo(query.actor); err != nil {
		return nil, err
	}
	return o, nil
}
