package commands

import (
	"errors"

	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to open a new laundry order.
// Pricing is optional; without it the order gets the default zero snapshot.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(actor, details, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	actor   access.Actor
	details order.Details
	pricing *order.PricingSnapshot

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand checks the actor and the client reference.
// Field rules of the order itself are enforced by order.NewOrder.
func NewCreateOrderCommand(
	actor access.Actor,
	details order.Details,
	pricing *order.PricingSnapshot,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		details.Client.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.details = details
	if pricing != nil {
		p := *pricing
		cmd.pricing = &p
	}
	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() access.Actor             { return c.actor }
func (c CreateOrderCommand) Details() order.Details          { return c.details }
func (c CreateOrderCommand) Pricing() *order.PricingSnapshot { return c.pricing }

func (c *CreateOrderCommand) setActor(actor access.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}
