package commands

import (
	"context"
	"errors"

	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"
)

// CreateOrderCommandHandler opens orders for clients, staff and admins.
// A client may only open an order for itself. A number collision on the
// unique index is retried with a fresh number in a new transaction.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      ports.Clock
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, clock ports.Clock) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// Handle creates a Pending order and returns it.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	actor := cmd.Actor()
	if err := actor.Require(access.Client, access.Staff, access.Admin); err != nil {
		return nil, err
	}
	if actor.Is(access.Client) && !actor.Owns(cmd.Details().Client) {
		return nil, errs.NewForbiddenError("clients can only create orders for themselves")
	}

	var err error
	for range maxNumberAttempts {
		var created *order.Order
		created, err = h.create(ctx, cmd)
		if !errors.Is(err, errs.ErrConflict) {
			return created, err
		}
	}
	return nil, err
}

func (h CreateOrderCommandHandler) create(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	now := h.clock.Now()
	created, err := order.NewOrder(
		kernel.NewUUID(),
		order.GenerateNumber(now),
		cmd.Details(),
		cmd.Pricing(),
		cmd.Actor().UserID,
		now,
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}
