package order

import (
	"fmt"

	"laundry/internal/pkg/errs"
)

// Status is the position of an order in the fulfillment pipeline.
//
//	Pending ─> Assigned ─> Transit ─> Arrived ─> Washing ─> Drying ─> Ironing ─>
//	QualityCheck ─> ReadyToDeliver ─> Collected ─> Delivered ─> Invoiced ─> Completed
//
// Only the dedicated transitions (pickup, facility receipt, delivery) check the
// current status. SetStatus on the order accepts any valid value.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	Assigned
	Transit
	Arrived
	Washing
	Drying
	Ironing
	QualityCheck
	ReadyToDeliver
	Collected
	Delivered
	Invoiced
	Completed
)

// Messages of the status guards, also returned to API callers.
const (
	reasonNotAwaitingPickup   = "order is not awaiting pickup"
	reasonNotInTransit        = "order is not in transit"
	reasonNotReadyForDelivery = "order is not ready for delivery"
	reasonNotEditable         = "order can only be edited while Pending or Assigned"
	reasonNotDeletable        = "only pending orders can be deleted"
)

var statusNames = map[Status]string{
	Pending:        "Pending",
	Assigned:       "Assigned",
	Transit:        "Transit",
	Arrived:        "Arrived",
	Washing:        "Washing",
	Drying:         "Drying",
	Ironing:        "Ironing",
	QualityCheck:   "QualityCheck",
	ReadyToDeliver: "ReadyToDeliver",
	Collected:      "Collected",
	Delivered:      "Delivered",
	Invoiced:       "Invoiced",
	Completed:      "Completed",
}

// AllStatuses lists the valid statuses in pipeline order.
func AllStatuses() []Status {
	out := make([]Status, 0, len(statusNames))
	for s := Pending; s <= Completed; s++ {
		out = append(out, s)
	}
	return out
}

// ParseStatus maps a wire name such as "ReadyToDeliver" to a Status.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", name))
}

// Validate rejects Unknown and out of range values.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid order status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// ConfirmPickup moves Pending or Assigned to Transit.
func (s Status) ConfirmPickup() (Status, error) {
	if s != Pending && s != Assigned {
		return Unknown, errs.NewPreconditionFailedErrorWithCause(reasonNotAwaitingPickup, fmt.Errorf("status is %s", s))
	}
	return Transit, nil
}

// ReceiveAtFacility moves Transit to Arrived.
func (s Status) ReceiveAtFacility() (Status, error) {
	if s != Transit {
		return Unknown, errs.NewPreconditionFailedErrorWithCause(reasonNotInTransit, fmt.Errorf("status is %s", s))
	}
	return Arrived, nil
}

// ConfirmDelivery moves ReadyToDeliver or Collected to Delivered.
func (s Status) ConfirmDelivery() (Status, error) {
	if s != ReadyToDeliver && s != Collected {
		return Unknown, errs.NewPreconditionFailedErrorWithCause(reasonNotReadyForDelivery, fmt.Errorf("status is %s", s))
	}
	return Delivered, nil
}

// ValidateEditable allows field edits only before pickup.
func (s Status) ValidateEditable() error {
	if s != Pending && s != Assigned {
		return errs.NewPreconditionFailedErrorWithCause(reasonNotEditable, fmt.Errorf("status is %s", s))
	}
	return nil
}

// ValidateDeletable allows deletion only while Pending.
func (s Status) ValidateDeletable() error {
	if s != Pending {
		return errs.NewPreconditionFailedErrorWithCause(reasonNotDeletable, fmt.Errorf("status is %s", s))
	}
	return nil
}
