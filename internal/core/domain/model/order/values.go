package order

import (
	"fmt"

	"laundry/internal/pkg/errs"
)

// ServiceType selects the turnaround of an order.
type ServiceType string

const (
	Express  ServiceType = "express"
	Standard ServiceType = "standard"
)

func (t ServiceType) Validate() error {
	if t != Express && t != Standard {
		return errs.NewValueIsInvalidErrorWithCause("service_type", fmt.Errorf("%q is not express or standard", string(t)))
	}
	return nil
}

// PhotoType tells whether a photo was taken before or after processing.
type PhotoType string

const (
	PhotoBefore PhotoType = "before"
	PhotoAfter  PhotoType = "after"
)

func (t PhotoType) Validate() error {
	if t != PhotoBefore && t != PhotoAfter {
		return errs.NewValueIsInvalidErrorWithCause("photo type", fmt.Errorf("%q is not before or after", string(t)))
	}
	return nil
}

// ConfirmationMethod records how the recipient acknowledged a delivery.
type ConfirmationMethod string

const (
	ConfirmBySignature ConfirmationMethod = "signature"
	ConfirmByPIN       ConfirmationMethod = "pin"
	ConfirmByPhoto     ConfirmationMethod = "photo"
)

func (m ConfirmationMethod) Validate() error {
	switch m {
	case ConfirmBySignature, ConfirmByPIN, ConfirmByPhoto:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("confirmation_method",
			fmt.Errorf("%q is not signature, pin or photo", string(m)))
	}
}
