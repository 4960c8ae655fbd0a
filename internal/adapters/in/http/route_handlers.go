package http

import (
	"net/http"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/route"
	"laundry/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// RouteHandlers serves /api/routes.
type RouteHandlers struct {
	create       commands.CreateRouteCommandHandler
	update       commands.UpdateRouteCommandHandler
	updateStatus commands.UpdateRouteStatusCommandHandler
	remove       commands.DeleteRouteCommandHandler
	list         queries.ListRoutesQueryHandler
	get          queries.GetRouteQueryHandler
}

func NewRouteHandlers(
	create commands.CreateRouteCommandHandler,
	update commands.UpdateRouteCommandHandler,
	updateStatus commands.UpdateRouteStatusCommandHandler,
	remove commands.DeleteRouteCommandHandler,
	list queries.ListRoutesQueryHandler,
	get queries.GetRouteQueryHandler,
) *RouteHandlers {
	return &RouteHandlers{
		create:       create,
		update:       update,
		updateStatus: updateStatus,
		remove:       remove,
		list:         list,
		get:          get,
	}
}

// Create handles POST /api/routes.
func (h *RouteHandlers) Create(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req createRouteRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	driver, err := parseID("driver", req.Driver)
	if err != nil {
		return err
	}
	orders, err := parseIDs("orders", req.Orders)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateRouteCommand(actor, req.RouteDate, driver, req.Area, orders)
	if err != nil {
		return err
	}
	r, err := h.create.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "Route created", presentRoute(r))
}

// List handles GET /api/routes.
func (h *RouteHandlers) List(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	filter, err := routeFilter(c)
	if err != nil {
		return err
	}

	query, err := queries.NewListRoutesQuery(actor, filter)
	if err != nil {
		return err
	}
	routes, err := h.list.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Routes retrieved", presentRoutes(routes))
}

// Get handles GET /api/routes/:id.
func (h *RouteHandlers) Get(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetRouteQuery(actor, id)
	if err != nil {
		return err
	}
	r, err := h.get.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Route retrieved", presentRoute(r))
}

// Update handles PUT /api/routes/:id.
func (h *RouteHandlers) Update(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	var req updateRouteRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	patch, err := req.patch()
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateRouteCommand(actor, id, patch)
	if err != nil {
		return err
	}
	r, err := h.update.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Route updated", presentRoute(r))
}

// UpdateStatus handles PATCH /api/routes/:id/status.
func (h *RouteHandlers) UpdateStatus(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	var req updateRouteStatusRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	status, err := route.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateRouteStatusCommand(actor, id, status)
	if err != nil {
		return err
	}
	r, err := h.updateStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Route status updated", presentRoute(r))
}

// Delete handles DELETE /api/routes/:id.
func (h *RouteHandlers) Delete(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewDeleteRouteCommand(actor, id)
	if err != nil {
		return err
	}
	if err = h.remove.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Route deleted", nil)
}

func routeFilter(c echo.Context) (ports.RouteFilter, error) {
	var filter ports.RouteFilter

	status, err := queryString(c, "status")
	if err != nil {
		return filter, err
	}
	if status != nil {
		s, parseErr := route.ParseStatus(*status)
		if parseErr != nil {
			return filter, parseErr
		}
		filter.Status = &s
	}
	if filter.Driver, err = queryUUID(c, "driver"); err != nil {
		return filter, err
	}
	if filter.Area, err = queryString(c, "area"); err != nil {
		return filter, err
	}
	if filter.Date, err = queryTime(c, "date"); err != nil {
		return filter, err
	}
	return filter, nil
}
