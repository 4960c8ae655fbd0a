package invoice

import (
	"errors"
	"fmt"
	"strings"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
)

// LineItem is a billed line as supplied by staff. Amounts are taken as given.
type LineItem struct {
	description string
	quantity    int
	unitPrice   kernel.Money
	totalPrice  kernel.Money
}

// NewLineItem requires a description, a positive quantity and positive prices.
func NewLineItem(description string, quantity int, unitPrice, totalPrice kernel.Money) (LineItem, error) {
	var errList []error
	if strings.TrimSpace(description) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("description"))
	}
	if quantity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity)))
	}
	if unitPrice.IsZero() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("unit_price", errors.New("must be positive")))
	}
	if totalPrice.IsZero() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("total_price", errors.New("must be positive")))
	}
	if err := errors.Join(errList...); err != nil {
		return LineItem{}, err
	}
	return LineItem{description: description, quantity: quantity, unitPrice: unitPrice, totalPrice: totalPrice}, nil
}

func (l LineItem) Description() string      { return l.description }
func (l LineItem) Quantity() int            { return l.quantity }
func (l LineItem) UnitPrice() kernel.Money  { return l.unitPrice }
func (l LineItem) TotalPrice() kernel.Money { return l.totalPrice }
