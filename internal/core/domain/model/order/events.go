package order

import (
	"time"

	"laundry/internal/core/domain/model/kernel"
)

// StatusChanged is raised every time an order's status is set, whichever
// operation set it. It is published after the transaction commits.
type StatusChanged struct {
	OrderID     kernel.UUID
	OrderNumber Number
	From        Status
	To          Status
	ChangedBy   kernel.UUID
	At          time.Time
}
