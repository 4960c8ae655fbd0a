package orderrepo

import (
	"context"
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
// The tracker may be nil for read-only use.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its items, history and photos.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("order number", dto.Number, err)
		}
		return err
	}

	r.track(aggregate)
	return nil
}

// Update rewrites the order row and its items. History and photo rows are
// only ever inserted; rows already stored are left alone.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	row := dto
	row.Items, row.History, row.Photos = nil, nil, nil
	result := db.Model(&OrderDTO{ID: dto.ID}).
		Select("*").
		Omit("id", "number", "created_at", clause.Associations).
		Updates(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	if err := db.Where("order_id = ?", dto.ID).Delete(&ItemDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Items) > 0 {
		if err := db.Create(&dto.Items).Error; err != nil {
			return err
		}
	}

	appendOnly := db.Clauses(clause.OnConflict{DoNothing: true})
	if len(dto.History) > 0 {
		if err := appendOnly.Create(&dto.History).Error; err != nil {
			return err
		}
	}
	if len(dto.Photos) > 0 {
		if err := appendOnly.Create(&dto.Photos).Error; err != nil {
			return err
		}
	}

	r.track(aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.forWrite(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetMany retrieves the orders in the order of ids.
func (r *GormOrderRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	if len(ids) == 0 {
		return []*order.Order{}, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []OrderDTO
	if err := r.forWrite(ctx).Where("id IN ?", raw).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]OrderDTO, len(dtos))
	for _, dto := range dtos {
		byID[dto.ID] = dto
	}

	orders := make([]*order.Order, 0, len(ids))
	for i, id := range ids {
		dto, ok := byID[raw[i]]
		if !ok {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// Find lists orders matching the filter, newest first.
func (r *GormOrderRepository) Find(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	q := r.preloaded(ctx)
	if filter.Status != nil {
		q = q.Where("status = ?", filter.Status.String())
	}
	if filter.Client != nil {
		q = q.Where("client_id = ?", filter.Client.Bytes())
	}
	if filter.DeliverID != nil {
		q = q.Where("deliver_id = ?", filter.DeliverID.Bytes())
	}
	if filter.ServiceType != nil {
		q = q.Where("service_type = ?", string(*filter.ServiceType))
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	var dtos []OrderDTO
	if err := q.Order("created_at DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// Delete removes an order; child rows go with it through ON DELETE CASCADE.
func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Delete(&OrderDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return nil
}

func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}

// forWrite locks the loaded rows until the surrounding transaction ends when
// the repository belongs to a unit of work. Read-side repositories load without
// locks.
func (r *GormOrderRepository) forWrite(ctx context.Context) *gorm.DB {
	q := r.preloaded(ctx)
	if r.tracker == nil {
		return q
	}
	return q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate, Table: clause.Table{Name: clause.CurrentTable}})
}

func (r *GormOrderRepository) track(aggregate *order.Order) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	}
}
