package order

import (
	"errors"
	"fmt"
	"strings"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
)

// Item is one garment line of an order. Its total is always quantity × unit price.
type Item struct {
	code       string
	name       string
	quantity   int
	unitPrice  kernel.Money
	totalPrice kernel.Money
}

// NewItem validates a line and computes its total.
func NewItem(code, name string, quantity int, unitPrice kernel.Money) (Item, error) {
	var errList []error
	if strings.TrimSpace(code) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("item_code"))
	}
	if strings.TrimSpace(name) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("item name"))
	}
	if quantity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity)))
	}
	if unitPrice.IsZero() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("unit_price", errors.New("must be positive")))
	}
	if err := errors.Join(errList...); err != nil {
		return Item{}, err
	}

	return Item{
		code:       code,
		name:       name,
		quantity:   quantity,
		unitPrice:  unitPrice,
		totalPrice: unitPrice.MulInt(quantity),
	}, nil
}

func (i Item) Code() string             { return i.code }
func (i Item) Name() string             { return i.name }
func (i Item) Quantity() int            { return i.quantity }
func (i Item) UnitPrice() kernel.Money  { return i.unitPrice }
func (i Item) TotalPrice() kernel.Money { return i.totalPrice }
