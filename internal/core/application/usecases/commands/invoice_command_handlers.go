package commands

import (
	"context"
	"errors"

	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/invoice"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/services"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"
)

// CreateInvoiceCommandHandler issues an invoice and marks its orders Invoiced
// in one transaction. Number collisions are retried like order creation.
type CreateInvoiceCommandHandler struct {
	uowFactory InvoiceUoWFactory
	clock      ports.Clock
	settlement services.Settlement
}

func NewCreateInvoiceCommandHandler(uowFactory InvoiceUoWFactory, clock ports.Clock) CreateInvoiceCommandHandler {
	return CreateInvoiceCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		settlement: services.NewSettlement(),
	}
}

func (h CreateInvoiceCommandHandler) Handle(ctx context.Context, cmd CreateInvoiceCommand) (*invoice.Invoice, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := cmd.Actor().Require(access.Admin, access.Staff); err != nil {
		return nil, err
	}

	var err error
	for range maxNumberAttempts {
		var created *invoice.Invoice
		created, err = h.create(ctx, cmd)
		if !errors.Is(err, errs.ErrConflict) {
			return created, err
		}
	}
	return nil, err
}

func (h CreateInvoiceCommandHandler) create(ctx context.Context, cmd CreateInvoiceCommand) (*invoice.Invoice, error) {
	now := h.clock.Now()
	created, err := invoice.NewInvoice(kernel.NewUUID(), invoice.GenerateNumber(now), cmd.Terms(), now)
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

	orderRepo := uow.OrderRepository()
	orders, err := orderRepo.GetMany(ctx, created.Orders())
	if err != nil {
		return nil, err
	}

	if err = h.settlement.Issue(created, orders, cmd.Actor().UserID, now); err != nil {
		return nil, err
	}

	if err = uow.InvoiceRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = updateOrders(ctx, orderRepo, orders); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

// RecordPaymentCommandHandler appends a payment. When the payments cover the
// total the invoice becomes paid and its orders Completed.
type RecordPaymentCommandHandler struct {
	uowFactory InvoiceUoWFactory
	clock      ports.Clock
	settlement services.Settlement
}

func NewRecordPaymentCommandHandler(uowFactory InvoiceUoWFactory, clock ports.Clock) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		settlement: services.NewSettlement(),
	}
}

func (h RecordPaymentCommandHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) (*invoice.Invoice, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	actor := cmd.Actor()
	if err := actor.Require(access.Admin, access.Staff); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	payment, err := invoice.NewPayment(cmd.Amount(), cmd.Method(), cmd.Reference(), now)
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

	invoiceRepo := uow.InvoiceRepository()
	inv, err := invoiceRepo.Get(ctx, cmd.InvoiceID())
	if err != nil {
		return nil, err
	}

	orderRepo := uow.OrderRepository()
	orders, err := orderRepo.GetMany(ctx, inv.Orders())
	if err != nil {
		return nil, err
	}

	settled, err := h.settlement.Pay(inv, payment, orders, actor.UserID, now)
	if err != nil {
		return nil, err
	}

	if err = invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	if settled {
		if err = updateOrders(ctx, orderRepo, orders); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return inv, nil
}

// MarkOverdueCommandHandler runs the overdue sweep as one bulk update and
// returns how many invoices changed. Running it twice changes nothing the second time.
type MarkOverdueCommandHandler struct {
	uowFactory InvoiceUoWFactory
	clock      ports.Clock
}

func NewMarkOverdueCommandHandler(uowFactory InvoiceUoWFactory, clock ports.Clock) MarkOverdueCommandHandler {
	return MarkOverdueCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h MarkOverdueCommandHandler) Handle(ctx context.Context, cmd MarkOverdueCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	if err := cmd.Actor().Require(access.Admin); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	modified, err := uow.InvoiceRepository().MarkOverdue(ctx, h.clock.Now())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return modified, nil
}
