package commands

import (
	"errors"
	"slices"

	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/guard"
)

var (
	ErrUpdateOrderCommandIsNotConstructed = errors.New(
		"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
	)
	ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
		"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
	)
	ErrConfirmPickupCommandIsNotConstructed = errors.New(
		"ConfirmPickupCommand must be created via NewConfirmPickupCommand constructor",
	)
	ErrReceiveAtFacilityCommandIsNotConstructed = errors.New(
		"ReceiveAtFacilityCommand must be created via NewReceiveAtFacilityCommand constructor",
	)
	ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
		"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
	)
	ErrDeleteOrderCommandIsNotConstructed = errors.New(
		"DeleteOrderCommand must be created via NewDeleteOrderCommand constructor",
	)
)

// orderTarget is the part every single-order command shares.
type orderTarget struct {
	actor   access.Actor
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func newOrderTarget(actor access.Actor, orderID kernel.UUID) (orderTarget, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return orderTarget{}, err
	}
	return orderTarget{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (t orderTarget) Actor() access.Actor  { return t.actor }
func (t orderTarget) OrderID() kernel.UUID { return t.orderID }

// UpdateOrderCommand edits the mutable fields of an order.
type UpdateOrderCommand struct {
	orderTarget
	patch order.Patch
}

func NewUpdateOrderCommand(actor access.Actor, orderID kernel.UUID, patch order.Patch) (UpdateOrderCommand, error) {
	target, err := newOrderTarget(actor, orderID)
	if err != nil {
		return UpdateOrderCommand{}, err
	}
	return UpdateOrderCommand{orderTarget: target, patch: patch}, nil
}

func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

func (c UpdateOrderCommand) Patch() order.Patch { return c.patch }

// UpdateOrderStatusCommand sets any status directly, bypassing the pipeline guards.
type UpdateOrderStatusCommand struct {
	orderTarget
	status order.Status
}

func NewUpdateOrderStatusCommand(
	actor access.Actor,
	orderID kernel.UUID,
	status order.Status,
) (UpdateOrderStatusCommand, error) {
	target, err := newOrderTarget(actor, orderID)
	if err != nil {
		return UpdateOrderStatusCommand{}, err
	}
	if err = status.Validate(); err != nil {
		return UpdateOrderStatusCommand{}, err
	}
	return UpdateOrderStatusCommand{orderTarget: target, status: status}, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) Status() order.Status { return c.status }

// ConfirmPickupCommand is submitted by the driver collecting the bags.
type ConfirmPickupCommand struct {
	orderTarget
	confirmation order.PickupConfirmation
}

func NewConfirmPickupCommand(
	actor access.Actor,
	orderID kernel.UUID,
	confirmation order.PickupConfirmation,
) (ConfirmPickupCommand, error) {
	target, err := newOrderTarget(actor, orderID)
	if err != nil {
		return ConfirmPickupCommand{}, err
	}
	return ConfirmPickupCommand{orderTarget: target, confirmation: confirmation}, nil
}

func (c ConfirmPickupCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPickupCommandIsNotConstructed)
}

func (c ConfirmPickupCommand) Confirmation() order.PickupConfirmation { return c.confirmation }

// ReceiveAtFacilityCommand checks an order in at the facility. A nil Items keeps the current lines.
type ReceiveAtFacilityCommand struct {
	orderTarget
	items []order.Item
	notes string
}

func NewReceiveAtFacilityCommand(
	actor access.Actor,
	orderID kernel.UUID,
	items []order.Item,
	notes string,
) (ReceiveAtFacilityCommand, error) {
	target, err := newOrderTarget(actor, orderID)
	if err != nil {
		return ReceiveAtFacilityCommand{}, err
	}
	return ReceiveAtFacilityCommand{orderTarget: target, items: slices.Clone(items), notes: notes}, nil
}

func (c ReceiveAtFacilityCommand) Validate() error {
	return c.guard.Validate(ErrReceiveAtFacilityCommandIsNotConstructed)
}

func (c ReceiveAtFacilityCommand) Items() []order.Item { return slices.Clone(c.items) }
func (c ReceiveAtFacilityCommand) Notes() string       { return c.notes }

// ConfirmDeliveryCommand is submitted by the driver handing the order back.
type ConfirmDeliveryCommand struct {
	orderTarget
	confirmation order.DeliveryConfirmation
}

func NewConfirmDeliveryCommand(
	actor access.Actor,
	orderID kernel.UUID,
	confirmation order.DeliveryConfirmation,
) (ConfirmDeliveryCommand, error) {
	target, err := newOrderTarget(actor, orderID)
	if err != nil {
		return ConfirmDeliveryCommand{}, err
	}
	if err = confirmation.Method.Validate(); err != nil {
		return ConfirmDeliveryCommand{}, err
	}
	return ConfirmDeliveryCommand{orderTarget: target, confirmation: confirmation}, nil
}

func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

func (c ConfirmDeliveryCommand) Confirmation() order.DeliveryConfirmation { return c.confirmation }

// DeleteOrderCommand removes a Pending order.
type DeleteOrderCommand struct {
	orderTarget
}

func NewDeleteOrderCommand(actor access.Actor, orderID kernel.UUID) (DeleteOrderCommand, error) {
	target, err := newOrderTarget(actor, orderID)
	if err != nil {
		return DeleteOrderCommand{}, err
	}
	return DeleteOrderCommand{orderTarget: target}, nil
}

func (c DeleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeleteOrderCommandIsNotConstructed)
}
