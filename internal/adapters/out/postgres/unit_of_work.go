// Package postgres provides GORM-based implementation of the Unit of Work pattern.
// The Unit of Work pattern maintains a list of aggregates affected by a business
// transaction and coordinates writing out changes.
//
// Key Features:
//   - One database transaction per unit of work, shared by the order, route
//     and invoice repositories it hands out
//   - Aggregates loaded with Get or GetMany are read with SELECT ... FOR UPDATE,
//     so a concurrent unit of work touching the same rows waits until this one
//     commits or rolls back
//   - Aggregate tracking for domain event publishing after commit
//
// Statements run at the database default isolation level (READ COMMITTED on
// PostgreSQL). Find and the read-side repositories take no locks.
//
// Usage Patterns:
//
//	factory := NewGormUnitOfWorkFactory(db, publisher, logger)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	// All operations within same transaction
//	if err := uow.InvoiceRepository().Update(ctx, inv); err != nil {
//	    return err
//	}
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance owns its own transaction
//   - Multiple goroutines should use separate UnitOfWork instances
package postgres

import (
	"context"

	"laundry/internal/adapters/out/postgres/invoicerepo"
	"laundry/internal/adapters/out/postgres/orderrepo"
	"laundry/internal/adapters/out/postgres/routerepo"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
	logger    zerolog.Logger
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// Order status events of committed transactions go to publisher.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db, kafka.NewNoopPublisher(), logger)
func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher, logger zerolog.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		logger:    logger,
	}
}

// Create produces a new UnitOfWork instance ready for business transaction management.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates database transactions and tracks aggregate changes
// for business operations.
//
// The unit of work tracks all aggregates written during the transaction. Once
// the transaction commits, the status changes raised by tracked orders are
// handed to the event publisher. A publishing failure is logged and does not
// affect the committed data.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	committed         bool
	publisher         ports.EventPublisher
	logger            zerolog.Logger
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	uow.committed = false
	return nil
}

// Commit finalizes all changes made within the current transaction and then
// publishes the domain events of the tracked orders.
//
// Returns error if no active transaction exists or if the commit operation fails.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	uow.committed = true
	uow.publishEvents(ctx)
	return nil
}

// Rollback discards all changes made within the current transaction.
// After a successful Commit it does nothing, so handlers may defer it unconditionally.
//
// Returns error if no transaction was ever begun or if the rollback operation fails.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		if uow.committed {
			return nil
		}
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// OrderRepository provides access to order persistence operations within the unit of work.
// Repository operations will execute within the current transaction if one is active,
// otherwise they use the main database connection for immediate execution.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// RouteRepository provides access to route persistence operations within the unit of work.
func (uow *GormUnitOfWork) RouteRepository() ports.RouteRepository {
	return routerepo.NewGormRouteRepository(uow.conn(), uow)
}

// InvoiceRepository provides access to invoice persistence operations within the unit of work.
func (uow *GormUnitOfWork) InvoiceRepository() ports.InvoiceRepository {
	return invoicerepo.NewGormInvoiceRepository(uow.conn(), uow)
}

// TrackAggregate registers a domain aggregate as modified within this unit of work.
// Repository implementations call it after every successful Add or Update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) publishEvents(ctx context.Context) {
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)
	if uow.publisher == nil {
		return
	}

	var events []order.StatusChanged
	seen := make(map[kernel.UUID]struct{}, len(tracked))
	for _, t := range tracked {
		o, ok := t.Aggregate.(*order.Order)
		if !ok {
			continue
		}
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		events = append(events, o.DomainEvents()...)
		o.ClearDomainEvents()
	}
	if len(events) == 0 {
		return
	}

	if err := uow.publisher.PublishOrderStatusChanged(ctx, events); err != nil {
		uow.logger.Error().Err(err).Int("events", len(events)).Msg("failed to publish order status events")
	}
}
