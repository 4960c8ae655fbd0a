package commands

import (
	"context"
	"slices"
	"time"

	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/route"
	"laundry/internal/core/domain/services"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"
)

// CreateRouteCommandHandler persists a planned route and assigns every
// referenced order to its driver in the same transaction.
type CreateRouteCommandHandler struct {
	uowFactory RouteUoWFactory
	clock      ports.Clock
	assigner   services.RouteAssigner
}

func NewCreateRouteCommandHandler(uowFactory RouteUoWFactory, clock ports.Clock) CreateRouteCommandHandler {
	return CreateRouteCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		assigner:   services.NewRouteAssigner(),
	}
}

// Handle returns errs.ErrObjectNotFound, with nothing written, when a referenced order does not exist.
func (h CreateRouteCommandHandler) Handle(ctx context.Context, cmd CreateRouteCommand) (*route.Route, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	actor := cmd.Actor()
	if err := actor.Require(access.Admin, access.Staff); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	created, err := route.NewRoute(kernel.NewUUID(), cmd.Date(), cmd.Driver(), cmd.Area(), cmd.Orders(), now)
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

	if err = assignRouteOrders(ctx, uow, h.assigner, created, actor.UserID, now); err != nil {
		return nil, err
	}

	if err = uow.RouteRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateRouteCommandHandler edits a route and re-assigns its orders when the
// driver or the order list changed.
type UpdateRouteCommandHandler struct {
	uowFactory RouteUoWFactory
	clock      ports.Clock
	assigner   services.RouteAssigner
}

func NewUpdateRouteCommandHandler(uowFactory RouteUoWFactory, clock ports.Clock) UpdateRouteCommandHandler {
	return UpdateRouteCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		assigner:   services.NewRouteAssigner(),
	}
}

func (h UpdateRouteCommandHandler) Handle(ctx context.Context, cmd UpdateRouteCommand) (*route.Route, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	actor := cmd.Actor()
	if err := actor.Require(access.Admin, access.Staff); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.RouteRepository()
	r, err := repo.Get(ctx, cmd.RouteID())
	if err != nil {
		return nil, err
	}

	previousOrders, previousDriver := r.Orders(), r.Driver()
	now := h.clock.Now()
	reassign, err := r.Edit(cmd.Patch(), now)
	if err != nil {
		return nil, err
	}

	if reassign {
		ids := r.Orders()
		if r.Driver().IsEqual(previousDriver) {
			ids = addedOrders(previousOrders, ids)
		}
		if err = reassignRouteOrders(ctx, uow, h.assigner, r, ids, actor.UserID, now); err != nil {
			return nil, err
		}
	}

	if err = repo.Update(ctx, r); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return r, nil
}

// UpdateRouteStatusCommandHandler sets the route status directly.
// Drivers may only move their own routes.
type UpdateRouteStatusCommandHandler struct {
	uowFactory RouteUoWFactory
	clock      ports.Clock
}

func NewUpdateRouteStatusCommandHandler(
	uowFactory RouteUoWFactory,
	clock ports.Clock,
) UpdateRouteStatusCommandHandler {
	return UpdateRouteStatusCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h UpdateRouteStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateRouteStatusCommand,
) (*route.Route, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	actor := cmd.Actor()
	if err := actor.Require(access.Admin, access.Staff, access.Driver); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.RouteRepository()
	r, err := repo.Get(ctx, cmd.RouteID())
	if err != nil {
		return nil, err
	}

	if actor.Is(access.Driver) && !r.AssignedTo(actor.UserID) {
		return nil, errs.NewForbiddenError("drivers can only update their own routes")
	}

	if err = r.SetStatus(cmd.Status(), h.clock.Now()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, r); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return r, nil
}

// DeleteRouteCommandHandler lets an admin remove a route that is still planned.
// The orders keep their assignment.
type DeleteRouteCommandHandler struct {
	uowFactory RouteUoWFactory
}

func NewDeleteRouteCommandHandler(uowFactory RouteUoWFactory) DeleteRouteCommandHandler {
	return DeleteRouteCommandHandler{uowFactory: uowFactory}
}

func (h DeleteRouteCommandHandler) Handle(ctx context.Context, cmd DeleteRouteCommand) error {
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

	repo := uow.RouteRepository()
	r, err := repo.Get(ctx, cmd.RouteID())
	if err != nil {
		return err
	}

	if err = r.EnsureDeletable(); err != nil {
		return err
	}

	if err = repo.Delete(ctx, r.ID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func assignRouteOrders(
	ctx context.Context,
	uow RouteUoW,
	assigner services.RouteAssigner,
	r *route.Route,
	plannedBy kernel.UUID,
	now time.Time,
) error {
	if len(r.Orders()) == 0 {
		return nil
	}

	orderRepo := uow.OrderRepository()
	orders, err := orderRepo.GetMany(ctx, r.Orders())
	if err != nil {
		return err
	}

	if err = assigner.Assign(r, orders, plannedBy, now); err != nil {
		return err
	}

	return updateOrders(ctx, orderRepo, orders)
}

// reassignRouteOrders hands the open orders among ids to the route driver.
func reassignRouteOrders(
	ctx context.Context,
	uow RouteUoW,
	assigner services.RouteAssigner,
	r *route.Route,
	ids []kernel.UUID,
	plannedBy kernel.UUID,
	now time.Time,
) error {
	if len(ids) == 0 {
		return nil
	}

	orderRepo := uow.OrderRepository()
	orders, err := orderRepo.GetMany(ctx, ids)
	if err != nil {
		return err
	}

	changed, err := assigner.Reassign(r, orders, plannedBy, now)
	if err != nil {
		return err
	}

	return updateOrders(ctx, orderRepo, changed)
}

// addedOrders returns the ids in current that were not in previous.
func addedOrders(previous, current []kernel.UUID) []kernel.UUID {
	added := make([]kernel.UUID, 0, len(current))
	for _, id := range current {
		if !slices.ContainsFunc(previous, id.IsEqual) {
			added = append(added, id)
		}
	}
	return added
}
