package ports

import (
	"context"

	"laundry/internal/core/domain/model/order"
)

// EventPublisher forwards committed order status changes to downstream consumers.
// Delivery is best effort: a failure never undoes the committed transaction.
type EventPublisher interface {
	PublishOrderStatusChanged(ctx context.Context, events []order.StatusChanged) error
}
