package services

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/route"
	"laundry/internal/pkg/errs"
)

// RouteAssigner binds the orders of a route to its driver.
//
// On creation every referenced order is set to Assigned with the route's driver
// as deliver_id and gets a history entry naming the planner. Re-planning goes
// through Reassign, which leaves orders past Assigned alone.
//
//	assigner := services.NewRouteAssigner()
//	if err := assigner.Assign(r, orders, actor.UserID, now); err != nil {
//	    return err
//	}
type RouteAssigner struct{}

func NewRouteAssigner() RouteAssigner {
	return RouteAssigner{}
}

// Assign requires orders to be exactly the orders the route references.
func (RouteAssigner) Assign(r *route.Route, orders []*order.Order, plannedBy kernel.UUID, now time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := matchOrders(r.Orders(), orders); err != nil {
		return err
	}

	for _, o := range orders {
		if err := o.AssignToDriver(r.Driver(), plannedBy, now); err != nil {
			return err
		}
	}
	return nil
}

// Reassign binds re-planned orders to the route driver. Only orders still
// Pending or Assigned are changed; orders already picked up or further along
// keep their status and history. It returns the orders it changed.
func (RouteAssigner) Reassign(r *route.Route, orders []*order.Order, plannedBy kernel.UUID, now time.Time) ([]*order.Order, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	onRoute := r.Orders()
	changed := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		if !slices.ContainsFunc(onRoute, o.ID().IsEqual) {
			return nil, errs.NewValueIsInvalidErrorWithCause("orders",
				fmt.Errorf("order %s is not on the route", o.ID()))
		}
		if s := o.Status(); s != order.Pending && s != order.Assigned {
			continue
		}
		if err := o.AssignToDriver(r.Driver(), plannedBy, now); err != nil {
			return nil, err
		}
		changed = append(changed, o)
	}
	return changed, nil
}

// matchOrders checks that orders holds one loaded aggregate per referenced ID.
func matchOrders(ids []kernel.UUID, orders []*order.Order) error {
	if len(ids) != len(orders) {
		return errs.NewValueIsInvalidErrorWithCause("orders",
			errors.New("loaded orders do not match the referenced orders"))
	}
	for _, id := range ids {
		found := false
		for _, o := range orders {
			if err := o.Validate(); err != nil {
				return err
			}
			if o.ID().IsEqual(id) {
				found = true
				break
			}
		}
		if !found {
			return errs.NewObjectNotFoundError("order", id.String())
		}
	}
	return nil
}
