package http

import (
	"net/http"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// OrderHandlers serves /api/orders.
type OrderHandlers struct {
	create        commands.CreateOrderCommandHandler
	update        commands.UpdateOrderCommandHandler
	updateStatus  commands.UpdateOrderStatusCommandHandler
	confirmPickup commands.ConfirmPickupCommandHandler
	receive       commands.ReceiveAtFacilityCommandHandler
	deliver       commands.ConfirmDeliveryCommandHandler
	remove        commands.DeleteOrderCommandHandler
	list          queries.ListOrdersQueryHandler
	get           queries.GetOrderQueryHandler
}

func NewOrderHandlers(
	create commands.CreateOrderCommandHandler,
	update commands.UpdateOrderCommandHandler,
	updateStatus commands.UpdateOrderStatusCommandHandler,
	confirmPickup commands.ConfirmPickupCommandHandler,
	receive commands.ReceiveAtFacilityCommandHandler,
	deliver commands.ConfirmDeliveryCommandHandler,
	remove commands.DeleteOrderCommandHandler,
	list queries.ListOrdersQueryHandler,
	get queries.GetOrderQueryHandler,
) *OrderHandlers {
	return &OrderHandlers{
		create:        create,
		update:        update,
		updateStatus:  updateStatus,
		confirmPickup: confirmPickup,
		receive:       receive,
		deliver:       deliver,
		remove:        remove,
		list:          list,
		get:           get,
	}
}

// Create handles POST /api/orders.
func (h *OrderHandlers) Create(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req createOrderRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	details, pricing, err := req.details()
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(actor, details, pricing)
	if err != nil {
		return err
	}
	o, err := h.create.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "Order created", presentOrder(o))
}

// List handles GET /api/orders.
func (h *OrderHandlers) List(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	filter, err := orderFilter(c)
	if err != nil {
		return err
	}

	query, err := queries.NewListOrdersQuery(actor, filter)
	if err != nil {
		return err
	}
	orders, err := h.list.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Orders retrieved", presentOrders(orders))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandlers) Get(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(actor, id)
	if err != nil {
		return err
	}
	o, err := h.get.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Order retrieved", presentOrder(o))
}

// Update handles PUT /api/orders/:id.
func (h *OrderHandlers) Update(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	var req updateOrderRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	patch, err := req.patch()
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderCommand(actor, id, patch)
	if err != nil {
		return err
	}
	o, err := h.update.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Order updated", presentOrder(o))
}

// UpdateStatus handles PATCH /api/orders/:id/status.
func (h *OrderHandlers) UpdateStatus(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	var req updateOrderStatusRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(actor, id, status)
	if err != nil {
		return err
	}
	o, err := h.updateStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Order status updated", presentOrder(o))
}

// ConfirmPickup handles PATCH /api/orders/:id/pickup.
func (h *OrderHandlers) ConfirmPickup(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	var req confirmPickupRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	confirmation, err := req.confirmation()
	if err != nil {
		return err
	}

	cmd, err := commands.NewConfirmPickupCommand(actor, id, confirmation)
	if err != nil {
		return err
	}
	o, err := h.confirmPickup.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Pickup confirmed", presentOrder(o))
}

// ReceiveAtFacility handles PATCH /api/orders/:id/receive.
func (h *OrderHandlers) ReceiveAtFacility(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	var req receiveAtFacilityRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	items, err := toItems(req.Items)
	if err != nil {
		return err
	}

	cmd, err := commands.NewReceiveAtFacilityCommand(actor, id, items, req.InternalNotes)
	if err != nil {
		return err
	}
	o, err := h.receive.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Order received at facility", presentOrder(o))
}

// ConfirmDelivery handles PATCH /api/orders/:id/deliver.
func (h *OrderHandlers) ConfirmDelivery(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	var req confirmDeliveryRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewConfirmDeliveryCommand(actor, id, req.confirmation())
	if err != nil {
		return err
	}
	o, err := h.deliver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Delivery confirmed", presentOrder(o))
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandlers) Delete(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewDeleteOrderCommand(actor, id)
	if err != nil {
		return err
	}
	if err = h.remove.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Order deleted", nil)
}

func orderFilter(c echo.Context) (ports.OrderFilter, error) {
	var filter ports.OrderFilter

	status, err := queryString(c, "status")
	if err != nil {
		return filter, err
	}
	if status != nil {
		s, parseErr := order.ParseStatus(*status)
		if parseErr != nil {
			return filter, parseErr
		}
		filter.Status = &s
	}

	if filter.Client, err = queryUUID(c, "client"); err != nil {
		return filter, err
	}

	serviceType, err := queryString(c, "service_type")
	if err != nil {
		return filter, err
	}
	if serviceType != nil {
		t := order.ServiceType(*serviceType)
		if err = t.Validate(); err != nil {
			return filter, err
		}
		filter.ServiceType = &t
	}

	if filter.From, err = queryTime(c, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = queryTime(c, "to"); err != nil {
		return filter, err
	}
	return filter, nil
}
