package invoice

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"laundry/internal/core/domain/model/access"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvoiceIsNotConstructed is returned when an Invoice was not created through NewInvoice or RestoreInvoice.
	ErrInvoiceIsNotConstructed = errors.New("Invoice must be created via NewInvoice constructor")
)

// Terms are the staff supplied contents of a new invoice. Amounts are stored as given.
type Terms struct {
	Client        kernel.UUID
	Orders        []kernel.UUID
	DueDate       time.Time
	LineItems     []LineItem
	Subtotal      kernel.Money
	VATPercentage decimal.Decimal
	VATAmount     kernel.Money
	Total         kernel.Money
}

// Invoice bills one client for one or more orders and collects payments against them.
//
// Invariants:
//   - the status is paid exactly when the payments add up to at least the total
//   - no payment is accepted once paid
//   - payments are append-only
type Invoice struct {
	id            kernel.UUID
	number        Number
	client        kernel.UUID
	orders        []kernel.UUID
	issueDate     time.Time
	dueDate       time.Time
	lineItems     []LineItem
	subtotal      kernel.Money
	vatPercentage decimal.Decimal
	vatAmount     kernel.Money
	total         kernel.Money
	status        Status
	payments      []Payment
	createdAt     time.Time
	guard         guard.ConstructorGuard
}

// NewInvoice issues a pending invoice dated now.
func NewInvoice(id kernel.UUID, number Number, terms Terms, now time.Time) (*Invoice, error) {
	inv := &Invoice{
		issueDate: now,
		status:    Pending,
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		inv.setID(id),
		inv.setNumber(number),
		inv.setTerms(terms),
	); err != nil {
		return nil, err
	}

	return inv, nil
}

// Snapshot carries every persisted attribute of an invoice for RestoreInvoice.
type Snapshot struct {
	ID        kernel.UUID
	Number    Number
	Terms     Terms
	IssueDate time.Time
	Status    Status
	Payments  []Payment
	CreatedAt time.Time
}

// RestoreInvoice rebuilds an invoice loaded from storage.
func RestoreInvoice(s Snapshot) (*Invoice, error) {
	inv := &Invoice{
		issueDate: s.IssueDate,
		payments:  slices.Clone(s.Payments),
		createdAt: s.CreatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		inv.setID(s.ID),
		inv.setNumber(s.Number),
		inv.setTerms(s.Terms),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	inv.status = s.Status

	return inv, nil
}

// Validate ensures the invoice was built by NewInvoice or RestoreInvoice.
func (i *Invoice) Validate() error {
	if i == nil {
		return ErrInvoiceIsNotConstructed
	}
	return i.guard.Validate(ErrInvoiceIsNotConstructed)
}

func (i *Invoice) ID() kernel.UUID                { return i.id }
func (i *Invoice) Number() Number                 { return i.number }
func (i *Invoice) Client() kernel.UUID            { return i.client }
func (i *Invoice) Orders() []kernel.UUID          { return slices.Clone(i.orders) }
func (i *Invoice) IssueDate() time.Time           { return i.issueDate }
func (i *Invoice) DueDate() time.Time             { return i.dueDate }
func (i *Invoice) LineItems() []LineItem          { return slices.Clone(i.lineItems) }
func (i *Invoice) Subtotal() kernel.Money         { return i.subtotal }
func (i *Invoice) VATPercentage() decimal.Decimal { return i.vatPercentage }
func (i *Invoice) VATAmount() kernel.Money        { return i.vatAmount }
func (i *Invoice) Total() kernel.Money            { return i.total }
func (i *Invoice) Status() Status                 { return i.status }
func (i *Invoice) Payments() []Payment            { return slices.Clone(i.payments) }
func (i *Invoice) CreatedAt() time.Time           { return i.createdAt }

// AmountPaid sums every recorded payment.
func (i *Invoice) AmountPaid() kernel.Money {
	amounts := make([]kernel.Money, 0, len(i.payments))
	for _, p := range i.payments {
		amounts = append(amounts, p.amount)
	}
	return kernel.SumMoney(amounts...)
}

// RecordPayment appends a payment and settles the invoice once the payments reach
// the total. It reports whether this payment settled the invoice.
// Only pending invoices take payments; overdue is terminal like paid.
func (i *Invoice) RecordPayment(p Payment) (bool, error) {
	switch i.status {
	case Paid:
		return false, errs.NewPreconditionFailedError("invoice is already fully paid")
	case Overdue:
		return false, errs.NewPreconditionFailedError("invoice is overdue")
	}

	i.payments = append(i.payments, p)
	if i.AmountPaid().GreaterThanOrEqual(i.total) {
		i.status = Paid
		return true, nil
	}
	return false, nil
}

// MarkOverdue flips a pending invoice whose due date has passed. It reports whether
// the status changed; paid and already overdue invoices are left alone.
func (i *Invoice) MarkOverdue(now time.Time) bool {
	if i.status != Pending || !i.dueDate.Before(now) {
		return false
	}
	i.status = Overdue
	return true
}

// VisibleTo rejects a client reading another client's invoice.
func (i *Invoice) VisibleTo(actor access.Actor) error {
	if actor.Role == access.Client && !actor.Owns(i.client) {
		return errs.NewForbiddenError("invoice belongs to another client")
	}
	return nil
}

func (i *Invoice) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Invoice) setNumber(n Number) error {
	if _, err := ParseNumber(string(n)); err != nil {
		return err
	}
	i.number = n
	return nil
}

func (i *Invoice) setTerms(t Terms) error {
	var errList []error
	if err := t.Client.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("client", err))
	}
	if len(t.Orders) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("orders"))
	}
	for _, id := range t.Orders {
		if err := id.Validate(); err != nil {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause("orders", err))
			break
		}
	}
	if t.DueDate.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("due_date"))
	}
	if len(t.LineItems) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("line_items"))
	}
	vat := t.VATPercentage.Round(2)
	if vat.IsNegative() || vat.GreaterThan(decimal.NewFromInt(100)) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("vat_percentage", vat.String(), 0, 100))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	orders := make([]kernel.UUID, 0, len(t.Orders))
	for _, id := range t.Orders {
		if !slices.ContainsFunc(orders, id.IsEqual) {
			orders = append(orders, id)
		}
	}

	i.client = t.Client
	i.orders = orders
	i.dueDate = t.DueDate
	i.lineItems = slices.Clone(t.LineItems)
	i.subtotal = t.Subtotal
	i.vatPercentage = vat
	i.vatAmount = t.VATAmount
	i.total = t.Total
	return nil
}

// String is used in log lines.
func (i *Invoice) String() string {
	return fmt.Sprintf("%s (%s, total %s)", i.number, i.status, i.total)
}
