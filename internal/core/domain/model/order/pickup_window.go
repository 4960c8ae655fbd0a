package order

import (
	"fmt"
	"time"

	"laundry/internal/pkg/errs"
)

// PickupWindow is the time range a driver may collect the bags in.
type PickupWindow struct {
	start time.Time
	end   time.Time
}

// NewPickupWindow requires both bounds and rejects an end before the start.
func NewPickupWindow(start, end time.Time) (PickupWindow, error) {
	if start.IsZero() {
		return PickupWindow{}, errs.NewValueIsRequiredError("pickup_window.start_time")
	}
	if end.IsZero() {
		return PickupWindow{}, errs.NewValueIsRequiredError("pickup_window.end_time")
	}
	if end.Before(start) {
		return PickupWindow{}, errs.NewValueIsInvalidErrorWithCause("pickup_window",
			fmt.Errorf("end %s is before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339)))
	}
	return PickupWindow{start: start, end: end}, nil
}

func (w PickupWindow) Start() time.Time { return w.start }
func (w PickupWindow) End() time.Time   { return w.end }
