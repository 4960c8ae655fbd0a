package queries

import (
	"context"
	"errors"

	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/invoice"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/guard"
)

var (
	ErrListInvoicesQueryIsNotConstructed = errors.New(
		"ListInvoicesQuery must be created via NewListInvoicesQuery constructor",
	)
	ErrGetInvoiceQueryIsNotConstructed = errors.New(
		"GetInvoiceQuery must be created via NewGetInvoiceQuery constructor",
	)
)

// invoiceReaders are the roles allowed to read invoices at all.
var invoiceReaders = []access.Role{access.Admin, access.Staff, access.Client}

// ListInvoicesQuery lists invoices, newest issue date first. Clients see only their own.
type ListInvoicesQuery struct {
	actor  access.Actor
	filter ports.InvoiceFilter
	guard  guard.ConstructorGuard
}

func NewListInvoicesQuery(actor access.Actor, filter ports.InvoiceFilter) (ListInvoicesQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListInvoicesQuery{}, err
	}
	return ListInvoicesQuery{actor: actor, filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q ListInvoicesQuery) Validate() error {
	return q.guard.Validate(ErrListInvoicesQueryIsNotConstructed)
}

func (q ListInvoicesQuery) Filter() ports.InvoiceFilter {
	f := q.filter
	if q.actor.Role == access.Client {
		id := q.actor.UserID
		f.Client = &id
	}
	return f
}

type ListInvoicesQueryHandler struct {
	invoices InvoiceReader
}

func NewListInvoicesQueryHandler(invoices InvoiceReader) ListInvoicesQueryHandler {
	return ListInvoicesQueryHandler{invoices: invoices}
}

func (h ListInvoicesQueryHandler) Handle(ctx context.Context, query ListInvoicesQuery) ([]*invoice.Invoice, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := query.actor.Require(invoiceReaders...); err != nil {
		return nil, err
	}
	return h.invoices.Find(ctx, query.Filter())
}

type GetInvoiceQuery struct {
	actor     access.Actor
	invoiceID kernel.UUID
	guard     guard.ConstructorGuard
}

func NewGetInvoiceQuery(actor access.Actor, invoiceID kernel.UUID) (GetInvoiceQuery, error) {
	if err := errors.Join(actor.Validate(), invoiceID.Validate()); err != nil {
		return GetInvoiceQuery{}, err
	}
	return GetInvoiceQuery{actor: actor, invoiceID: invoiceID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetInvoiceQuery) Validate() error {
	return q.guard.Validate(ErrGetInvoiceQueryIsNotConstructed)
}

type GetInvoiceQueryHandler struct {
	invoices InvoiceReader
}

func NewGetInvoiceQueryHandler(invoices InvoiceReader) GetInvoiceQueryHandler {
	return GetInvoiceQueryHandler{invoices: invoices}
}

func (h GetInvoiceQueryHandler) Handle(ctx context.Context, query GetInvoiceQuery) (*invoice.Invoice, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := query.actor.Require(invoiceReaders...); err != nil {
		return nil, err
	}

	inv, err := h.invoices.Get(ctx, query.invoiceID)
	if err != nil {
		return nil, err
	}

	if err = inv.VisibleTo(query.actor); err != nil {
		return nil, err
	}
	return inv, nil
}
