package services

import (
	"fmt"
	"time"

	"laundry/internal/core/domain/model/invoice"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/errs"
)

// Settlement applies the order side effects of the invoice lifecycle:
// issuing an invoice marks its orders Invoiced and settling it completes them.
type Settlement struct{}

func NewSettlement() Settlement {
	return Settlement{}
}

// Issue marks every order of a new invoice as Invoiced. The orders must belong
// to the invoiced client.
func (Settlement) Issue(inv *invoice.Invoice, orders []*order.Order, issuedBy kernel.UUID, now time.Time) error {
	if err := inv.Validate(); err != nil {
		return err
	}
	if err := matchOrders(inv.Orders(), orders); err != nil {
		return err
	}
	for _, o := range orders {
		if !o.Client().IsEqual(inv.Client()) {
			return errs.NewValueIsInvalidErrorWithCause("orders",
				fmt.Errorf("order %s belongs to another client", o.Number()))
		}
	}

	for _, o := range orders {
		if err := o.MarkInvoiced(issuedBy, now); err != nil {
			return err
		}
	}
	return nil
}

// Pay records a payment and, when it settles the invoice, completes every order.
// It reports whether the invoice is now paid.
func (Settlement) Pay(
	inv *invoice.Invoice,
	p invoice.Payment,
	orders []*order.Order,
	recordedBy kernel.UUID,
	now time.Time,
) (bool, error) {
	if err := inv.Validate(); err != nil {
		return false, err
	}

	settled, err := inv.RecordPayment(p)
	if err != nil || !settled {
		return settled, err
	}

	if err = matchOrders(inv.Orders(), orders); err != nil {
		return false, err
	}
	for _, o := range orders {
		if err = o.Complete(recordedBy, now); err != nil {
			return false, err
		}
	}
	return true, nil
}
