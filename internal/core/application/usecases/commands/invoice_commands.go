package commands

import (
	"errors"
	"strings"

	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/invoice"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var (
	ErrCreateInvoiceCommandIsNotConstructed = errors.New(
		"CreateInvoiceCommand must be created via NewCreateInvoiceCommand constructor",
	)
	ErrRecordPaymentCommandIsNotConstructed = errors.New(
		"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
	)
	ErrMarkOverdueCommandIsNotConstructed = errors.New(
		"MarkOverdueCommand must be created via NewMarkOverdueCommand constructor",
	)
)

// CreateInvoiceCommand bills a client for a set of orders.
type CreateInvoiceCommand struct {
	actor access.Actor
	terms invoice.Terms

	guard guard.ConstructorGuard
}

func NewCreateInvoiceCommand(actor access.Actor, terms invoice.Terms) (CreateInvoiceCommand, error) {
	var ordersErr error
	if len(terms.Orders) == 0 {
		ordersErr = errs.NewValueIsRequiredError("orders")
	}
	if err := errors.Join(actor.Validate(), terms.Client.Validate(), ordersErr); err != nil {
		return CreateInvoiceCommand{}, err
	}
	return CreateInvoiceCommand{actor: actor, terms: terms, guard: guard.NewConstructorGuard()}, nil
}

func (c CreateInvoiceCommand) Validate() error {
	return c.guard.Validate(ErrCreateInvoiceCommandIsNotConstructed)
}

func (c CreateInvoiceCommand) Actor() access.Actor  { return c.actor }
func (c CreateInvoiceCommand) Terms() invoice.Terms { return c.terms }

// RecordPaymentCommand registers money received against an invoice.
// The payment is stamped with the handling time.
type RecordPaymentCommand struct {
	actor     access.Actor
	invoiceID kernel.UUID
	amount    kernel.Money
	method    invoice.PaymentMethod
	reference string

	guard guard.ConstructorGuard
}

func NewRecordPaymentCommand(
	actor access.Actor,
	invoiceID kernel.UUID,
	amount kernel.Money,
	method invoice.PaymentMethod,
	reference string,
) (RecordPaymentCommand, error) {
	var amountErr, refErr error
	if amount.IsZero() {
		amountErr = errs.NewValueIsInvalidErrorWithCause("amount", errors.New("must be positive"))
	}
	if strings.TrimSpace(reference) == "" {
		refErr = errs.NewValueIsRequiredError("transaction_reference")
	}
	if err := errors.Join(
		actor.Validate(),
		invoiceID.Validate(),
		amountErr,
		method.Validate(),
		refErr,
	); err != nil {
		return RecordPaymentCommand{}, err
	}

	return RecordPaymentCommand{
		actor:     actor,
		invoiceID: invoiceID,
		amount:    amount,
		method:    method,
		reference: reference,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}

func (c RecordPaymentCommand) Actor() access.Actor           { return c.actor }
func (c RecordPaymentCommand) InvoiceID() kernel.UUID        { return c.invoiceID }
func (c RecordPaymentCommand) Amount() kernel.Money          { return c.amount }
func (c RecordPaymentCommand) Method() invoice.PaymentMethod { return c.method }
func (c RecordPaymentCommand) Reference() string             { return c.reference }

// MarkOverdueCommand triggers the overdue sweep. Scheduled runs use access.SystemActor.
type MarkOverdueCommand struct {
	actor access.Actor
	guard guard.ConstructorGuard
}

func NewMarkOverdueCommand(actor access.Actor) (MarkOverdueCommand, error) {
	if err := actor.Validate(); err != nil {
		return MarkOverdueCommand{}, err
	}
	return MarkOverdueCommand{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkOverdueCommand) Validate() error {
	return c.guard.Validate(ErrMarkOverdueCommandIsNotConstructed)
}

func (c MarkOverdueCommand) Actor() access.Actor { return c.actor }
