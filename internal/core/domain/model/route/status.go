package route

import (
	"fmt"

	"laundry/internal/pkg/errs"
)

// Status of a route. Any valid status may be set directly; only deletion is guarded.
type Status int

const (
	Unknown Status = iota
	Planned
	InProgress
	Completed
)

var statusNames = map[Status]string{
	Planned:    "planned",
	InProgress: "in_progress",
	Completed:  "completed",
}

// ParseStatus maps "planned", "in_progress" or "completed" to a Status.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if n == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid route status", name))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid route status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}
