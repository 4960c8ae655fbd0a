package order

import (
	"time"

	"laundry/internal/core/domain/model/kernel"
)

// HistoryEntry is one line of the append-only status audit trail.
type HistoryEntry struct {
	status    Status
	changedBy kernel.UUID
	timestamp time.Time
}

// RestoreHistoryEntry rebuilds an entry read from storage.
func RestoreHistoryEntry(status Status, changedBy kernel.UUID, timestamp time.Time) (HistoryEntry, error) {
	if err := status.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	if err := changedBy.Validate(); err != nil {
		return HistoryEntry{}, err
	}
	return HistoryEntry{status: status, changedBy: changedBy, timestamp: timestamp}, nil
}

func (h HistoryEntry) Status() Status         { return h.status }
func (h HistoryEntry) ChangedBy() kernel.UUID { return h.changedBy }
func (h HistoryEntry) Timestamp() time.Time   { return h.timestamp }
