package invoice

import (
	"fmt"

	"laundry/internal/pkg/errs"
)

// Status of an invoice.
//
//	pending ──(payments reach total)──> paid
//	pending ──(overdue sweep)─────────> overdue ──(payments reach total)──> paid
type Status int

const (
	Unknown Status = iota
	Pending
	Paid
	Overdue
)

var statusNames = map[Status]string{
	Pending: "pending",
	Paid:    "paid",
	Overdue: "overdue",
}

// ParseStatus maps "pending", "paid" or "overdue" to a Status.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid invoice status", name))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid invoice status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}
