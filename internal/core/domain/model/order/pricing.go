package order

import (
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DefaultVATPercentage applies when an order is created without a price breakdown.
var DefaultVATPercentage = decimal.NewFromInt(18)

// PricingSnapshot is the price breakdown frozen on the order when it is created.
type PricingSnapshot struct {
	subtotal      kernel.Money
	vatPercentage decimal.Decimal
	vatAmount     kernel.Money
	total         kernel.Money
}

// NewPricingSnapshot validates a breakdown. The VAT percentage must lie in [0, 100].
func NewPricingSnapshot(subtotal kernel.Money, vatPercentage decimal.Decimal, vatAmount, total kernel.Money) (PricingSnapshot, error) {
	vat := vatPercentage.Round(2)
	if vat.IsNegative() || vat.GreaterThan(decimal.NewFromInt(100)) {
		return PricingSnapshot{}, errs.NewValueIsOutOfRangeError("vat_percentage", vat.String(), 0, 100)
	}
	return PricingSnapshot{
		subtotal:      subtotal,
		vatPercentage: vat,
		vatAmount:     vatAmount,
		total:         total,
	}, nil
}

// DefaultPricingSnapshot returns {subtotal: 0, vat_percentage: 18, vat_amount: 0, total: 0}.
func DefaultPricingSnapshot() PricingSnapshot {
	return PricingSnapshot{
		subtotal:      kernel.ZeroMoney(),
		vatPercentage: DefaultVATPercentage,
		vatAmount:     kernel.ZeroMoney(),
		total:         kernel.ZeroMoney(),
	}
}

func (p PricingSnapshot) Subtotal() kernel.Money         { return p.subtotal }
func (p PricingSnapshot) VATPercentage() decimal.Decimal { return p.vatPercentage }
func (p PricingSnapshot) VATAmount() kernel.Money        { return p.vatAmount }
func (p PricingSnapshot) Total() kernel.Money            { return p.total }

// IsEqual compares every component.
func (p PricingSnapshot) IsEqual(other PricingSnapshot) bool {
	return p.subtotal.IsEqual(other.subtotal) &&
		p.vatPercentage.Equal(other.vatPercentage) &&
		p.vatAmount.IsEqual(other.vatAmount) &&
		p.total.IsEqual(other.total)
}
