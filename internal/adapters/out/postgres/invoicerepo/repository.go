package invoicerepo

import (
	"context"
	"errors"
	"time"

	"laundry/internal/core/domain/model/invoice"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements InvoiceRepository using GORM.
type GormInvoiceRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormInvoiceRepository(db *gorm.DB, tracker aggregateTracker) *GormInvoiceRepository {
	return &GormInvoiceRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormInvoiceRepository) Add(ctx context.Context, aggregate *invoice.Invoice) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("invoice number", dto.Number, err)
		}
		return err
	}

	r.track(aggregate)
	return nil
}

// Update stores the invoice status and appends payments not yet persisted.
// The order list and amounts are fixed at issue and never rewritten.
func (r *GormInvoiceRepository) Update(ctx context.Context, aggregate *invoice.Invoice) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	db := r.db.WithContext(ctx)

	result := db.Model(&InvoiceDTO{ID: dto.ID}).Update("status", dto.Status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("invoice", aggregate.ID().String())
	}

	if len(dto.Payments) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.Payments).Error; err != nil {
			return err
		}
	}

	r.track(aggregate)
	return nil
}

func (r *GormInvoiceRepository) Get(ctx context.Context, id kernel.UUID) (*invoice.Invoice, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto InvoiceDTO
	if err := r.forWrite(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("invoice", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Find lists invoices matching the filter, newest issue date first.
func (r *GormInvoiceRepository) Find(ctx context.Context, filter ports.InvoiceFilter) ([]*invoice.Invoice, error) {
	q := r.preloaded(ctx)
	if filter.Status != nil {
		q = q.Where("status = ?", filter.Status.String())
	}
	if filter.Client != nil {
		q = q.Where("client_id = ?", filter.Client.Bytes())
	}
	if filter.From != nil {
		q = q.Where("issue_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("issue_date <= ?", *filter.To)
	}

	var dtos []InvoiceDTO
	if err := q.Order("issue_date DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	invoices := make([]*invoice.Invoice, 0, len(dtos))
	for _, dto := range dtos {
		inv, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}

	return invoices, nil
}

// MarkOverdue flips every pending invoice whose due date has passed to overdue
// in a single statement and reports how many rows changed.
func (r *GormInvoiceRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&InvoiceDTO{}).
		Where("status = ? AND due_date < ?", invoice.Pending.String(), now).
		Update("status", invoice.Overdue.String())
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormInvoiceRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}

// forWrite locks the loaded rows until the surrounding transaction ends when
// the repository belongs to a unit of work. Read-side repositories load without
// locks.
func (r *GormInvoiceRepository) forWrite(ctx context.Context) *gorm.DB {
	q := r.preloaded(ctx)
	if r.tracker == nil {
		return q
	}
	return q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate, Table: clause.Table{Name: clause.CurrentTable}})
}

func (r *GormInvoiceRepository) track(aggregate *invoice.Invoice) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	}
}
