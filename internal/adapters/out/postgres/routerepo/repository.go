package routerepo

import (
	"context"
	"errors"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/route"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRouteRepository implements RouteRepository using GORM.
type GormRouteRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormRouteRepository(db *gorm.DB, tracker aggregateTracker) *GormRouteRepository {
	return &GormRouteRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormRouteRepository) Add(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.track(aggregate)
	return nil
}

// Update rewrites the route row and replaces its order list.
func (r *GormRouteRepository) Update(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	row := dto
	row.Orders = nil
	result := db.Model(&RouteDTO{ID: dto.ID}).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("route", aggregate.ID().String())
	}

	if err := db.Where("route_id = ?", dto.ID).Delete(&RouteOrderDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Orders) > 0 {
		if err := db.Create(&dto.Orders).Error; err != nil {
			return err
		}
	}

	r.track(aggregate)
	return nil
}

func (r *GormRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RouteDTO
	if err := r.forWrite(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("route", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Find lists routes matching the filter, latest route date first.
func (r *GormRouteRepository) Find(ctx context.Context, filter ports.RouteFilter) ([]*route.Route, error) {
	q := r.preloaded(ctx)
	if filter.Status != nil {
		q = q.Where("status = ?", filter.Status.String())
	}
	if filter.Driver != nil {
		q = q.Where("driver_id = ?", filter.Driver.Bytes())
	}
	if filter.Area != nil {
		q = q.Where("area = ?", *filter.Area)
	}
	if filter.Date != nil {
		d := filter.Date.UTC()
		start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		q = q.Where("route_date >= ? AND route_date < ?", start, start.AddDate(0, 0, 1))
	}

	var dtos []RouteDTO
	if err := q.Order("route_date DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	routes := make([]*route.Route, 0, len(dtos))
	for _, dto := range dtos {
		rt, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}

	return routes, nil
}

func (r *GormRouteRepository) Delete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Delete(&RouteDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("route", id.String())
	}
	return nil
}

func (r *GormRouteRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

// forWrite locks the loaded rows until the surrounding transaction ends when
// the repository belongs to a unit of work. Read-side repositories load without
// locks.
func (r *GormRouteRepository) forWrite(ctx context.Context) *gorm.DB {
	q := r.preloaded(ctx)
	if r.tracker == nil {
		return q
	}
	return q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate, Table: clause.Table{Name: clause.CurrentTable}})
}

func (r *GormRouteRepository) track(aggregate *route.Route) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	}
}
