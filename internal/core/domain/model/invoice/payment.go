package invoice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
)

// PaymentMethod is how a payment was made.
type PaymentMethod string

const (
	Cash         PaymentMethod = "cash"
	BankTransfer PaymentMethod = "bank_transfer"
	Card         PaymentMethod = "card"
)

func (m PaymentMethod) Validate() error {
	switch m {
	case Cash, BankTransfer, Card:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("method", fmt.Errorf("%q is not cash, bank_transfer or card", string(m)))
	}
}

// Payment is one settlement entry on an invoice.
type Payment struct {
	amount    kernel.Money
	method    PaymentMethod
	reference string
	paidAt    time.Time
}

// NewPayment requires a positive amount, a known method and a transaction reference.
func NewPayment(amount kernel.Money, method PaymentMethod, reference string, paidAt time.Time) (Payment, error) {
	var amountErr, refErr error
	if amount.IsZero() {
		amountErr = errs.NewValueIsInvalidErrorWithCause("amount", errors.New("must be positive"))
	}
	if strings.TrimSpace(reference) == "" {
		refErr = errs.NewValueIsRequiredError("transaction_reference")
	}
	if err := errors.Join(amountErr, method.Validate(), refErr); err != nil {
		return Payment{}, err
	}
	return Payment{amount: amount, method: method, reference: reference, paidAt: paidAt}, nil
}

func (p Payment) Amount() kernel.Money  { return p.amount }
func (p Payment) Method() PaymentMethod { return p.method }
func (p Payment) Reference() string     { return p.reference }
func (p Payment) PaidAt() time.Time     { return p.paidAt }
