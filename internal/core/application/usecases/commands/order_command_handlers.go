package commands

import (
	"context"

	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
)

// UpdateOrderCommandHandler applies field edits for staff and admins.
// Only admins may edit an order past Assigned.
type UpdateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      ports.Clock
}

func NewUpdateOrderCommandHandler(uowFactory OrderUoWFactory, clock ports.Clock) UpdateOrderCommandHandler {
	return UpdateOrderCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	actor := cmd.Actor()
	if err := actor.Require(access.Staff, access.Admin); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.Edit(cmd.Patch(), actor, h.clock.Now())
	})
}

// UpdateOrderStatusCommandHandler is the permissive status setter: any status
// may follow any other. It still records history.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      ports.Clock
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	clock ports.Clock,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h UpdateOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	actor := cmd.Actor()
	if err := actor.Require(access.Staff, access.Admin); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.SetStatus(cmd.Status(), actor.UserID, h.clock.Now())
	})
}

// ConfirmPickupCommandHandler moves a Pending or Assigned order to Transit
// and makes the confirming driver its deliverer.
type ConfirmPickupCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      ports.Clock
}

func NewConfirmPickupCommandHandler(uowFactory OrderUoWFactory, clock ports.Clock) ConfirmPickupCommandHandler {
	return ConfirmPickupCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h ConfirmPickupCommandHandler) Handle(ctx context.Context, cmd ConfirmPickupCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	actor := cmd.Actor()
	if err := actor.Require(access.Driver, access.Admin); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.ConfirmPickup(cmd.Confirmation(), actor.UserID, h.clock.Now())
	})
}

// ReceiveAtFacilityCommandHandler moves a Transit order to Arrived.
type ReceiveAtFacilityCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      ports.Clock
}

func NewReceiveAtFacilityCommandHandler(
	uowFactory OrderUoWFactory,
	clock ports.Clock,
) ReceiveAtFacilityCommandHandler {
	return ReceiveAtFacilityCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h ReceiveAtFacilityCommandHandler) Handle(
	ctx context.Context,
	cmd ReceiveAtFacilityCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	actor := cmd.Actor()
	if err := actor.Require(access.Staff, access.Admin); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.ReceiveAtFacility(cmd.Items(), cmd.Notes(), actor.UserID, h.clock.Now())
	})
}

// ConfirmDeliveryCommandHandler moves a ReadyToDeliver or Collected order to Delivered.
type ConfirmDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      ports.Clock
}

func NewConfirmDeliveryCommandHandler(uowFactory OrderUoWFactory, clock ports.Clock) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h ConfirmDeliveryCommandHandler) Handle(
	ctx context.Context,
	cmd ConfirmDeliveryCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	actor := cmd.Actor()
	if err := actor.Require(access.Driver, access.Admin); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.ConfirmDelivery(cmd.Confirmation(), actor.UserID, h.clock.Now())
	})
}

// DeleteOrderCommandHandler lets an admin remove an order that is still Pending.
type DeleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewDeleteOrderCommandHandler(uowFactory OrderUoWFactory) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{uowFactory: uowFactory}
}

func (h DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := cmd.Actor().Require(access.Admin); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = o.EnsureDeletable(); err != nil {
		return err
	}

	if err = repo.Delete(ctx, o.ID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
