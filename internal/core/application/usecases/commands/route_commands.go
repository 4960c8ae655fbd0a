package commands

import (
	"errors"
	"slices"
	"time"

	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/route"
	"laundry/internal/pkg/guard"
)

var (
	ErrCreateRouteCommandIsNotConstructed = errors.New(
		"CreateRouteCommand must be created via NewCreateRouteCommand constructor",
	)
	ErrUpdateRouteCommandIsNotConstructed = errors.New(
		"UpdateRouteCommand must be created via NewUpdateRouteCommand constructor",
	)
	ErrUpdateRouteStatusCommandIsNotConstructed = errors.New(
		"UpdateRouteStatusCommand must be created via NewUpdateRouteStatusCommand constructor",
	)
	ErrDeleteRouteCommandIsNotConstructed = errors.New(
		"DeleteRouteCommand must be created via NewDeleteRouteCommand constructor",
	)
)

// CreateRouteCommand plans a driver's route over a list of orders.
//
// Example:
//
//	cmd, err := NewCreateRouteCommand(actor, day, driverID, "North", []kernel.UUID{a, b})
//	created, err := handler.Handle(ctx, cmd)
//	// a and b are now Assigned to driverID
type CreateRouteCommand struct {
	actor  access.Actor
	date   time.Time
	driver kernel.UUID
	area   string
	orders []kernel.UUID

	guard guard.ConstructorGuard
}

func NewCreateRouteCommand(
	actor access.Actor,
	date time.Time,
	driver kernel.UUID,
	area string,
	orders []kernel.UUID,
) (CreateRouteCommand, error) {
	if err := errors.Join(actor.Validate(), driver.Validate()); err != nil {
		return CreateRouteCommand{}, err
	}
	return CreateRouteCommand{
		actor:  actor,
		date:   date,
		driver: driver,
		area:   area,
		orders: slices.Clone(orders),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c CreateRouteCommand) Validate() error {
	return c.guard.Validate(ErrCreateRouteCommandIsNotConstructed)
}

func (c CreateRouteCommand) Actor() access.Actor   { return c.actor }
func (c CreateRouteCommand) Date() time.Time       { return c.date }
func (c CreateRouteCommand) Driver() kernel.UUID   { return c.driver }
func (c CreateRouteCommand) Area() string          { return c.area }
func (c CreateRouteCommand) Orders() []kernel.UUID { return slices.Clone(c.orders) }

// routeTarget is the part every single-route command shares.
type routeTarget struct {
	actor   access.Actor
	routeID kernel.UUID
	guard   guard.ConstructorGuard
}

func newRouteTarget(actor access.Actor, routeID kernel.UUID) (routeTarget, error) {
	if err := errors.Join(actor.Validate(), routeID.Validate()); err != nil {
		return routeTarget{}, err
	}
	return routeTarget{actor: actor, routeID: routeID, guard: guard.NewConstructorGuard()}, nil
}

func (t routeTarget) Actor() access.Actor  { return t.actor }
func (t routeTarget) RouteID() kernel.UUID { return t.routeID }

// UpdateRouteCommand edits route fields. A new driver or order list re-assigns the orders.
type UpdateRouteCommand struct {
	routeTarget
	patch route.Patch
}

func NewUpdateRouteCommand(actor access.Actor, routeID kernel.UUID, patch route.Patch) (UpdateRouteCommand, error) {
	target, err := newRouteTarget(actor, routeID)
	if err != nil {
		return UpdateRouteCommand{}, err
	}
	return UpdateRouteCommand{routeTarget: target, patch: patch}, nil
}

func (c UpdateRouteCommand) Validate() error {
	return c.guard.Validate(ErrUpdateRouteCommandIsNotConstructed)
}

func (c UpdateRouteCommand) Patch() route.Patch { return c.patch }

type UpdateRouteStatusCommand struct {
	routeTarget
	status route.Status
}

func NewUpdateRouteStatusCommand(
	actor access.Actor,
	routeID kernel.UUID,
	status route.Status,
) (UpdateRouteStatusCommand, error) {
	target, err := newRouteTarget(actor, routeID)
	if err != nil {
		return UpdateRouteStatusCommand{}, err
	}
	if err = status.Validate(); err != nil {
		return UpdateRouteStatusCommand{}, err
	}
	return UpdateRouteStatusCommand{routeTarget: target, status: status}, nil
}

func (c UpdateRouteStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateRouteStatusCommandIsNotConstructed)
}

func (c UpdateRouteStatusCommand) Status() route.Status { return c.status }

type DeleteRouteCommand struct {
	routeTarget
}

func NewDeleteRouteCommand(actor access.Actor, routeID kernel.UUID) (DeleteRouteCommand, error) {
	target, err := newRouteTarget(actor, routeID)
	if err != nil {
		return DeleteRouteCommand{}, err
	}
	return DeleteRouteCommand{routeTarget: target}, nil
}

func (c DeleteRouteCommand) Validate() error {
	return c.guard.Validate(ErrDeleteRouteCommandIsNotConstructed)
}
