// Package orderrepo persists order aggregates. The order row carries the scalar
// attributes and the pricing snapshot; items, status history and photos live in
// child tables keyed by position.
package orderrepo

import (
	"errors"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number             string     `gorm:"type:varchar(20);not null;uniqueIndex:orders_number_key"`
	ClientID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	PropertyID         *uuid.UUID `gorm:"type:uuid"`
	ServiceType        string     `gorm:"type:varchar(16);not null"`
	PickupDate         time.Time
	PickupWindowStart  time.Time
	PickupWindowEnd    time.Time
	EstimatedBags      int
	ActualBags         int
	SpecialNotes       string
	DeliverID          *uuid.UUID      `gorm:"type:uuid;index"`
	Status             string          `gorm:"type:varchar(32);not null;index"`
	ConfirmationMethod string          `gorm:"type:varchar(16)"`
	Subtotal           decimal.Decimal `gorm:"type:numeric(14,2)"`
	VATPercentage      decimal.Decimal `gorm:"column:vat_percentage;type:numeric(5,2)"`
	VATAmount          decimal.Decimal `gorm:"column:vat_amount;type:numeric(14,2)"`
	Total              decimal.Decimal `gorm:"type:numeric(14,2)"`
	CreatedAt          time.Time       `gorm:"autoCreateTime:false"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime:false"`

	Items   []ItemDTO    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History []HistoryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Photos  []PhotoDTO   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type ItemDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position   int       `gorm:"primaryKey;autoIncrement:false"`
	Code       string
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal `gorm:"type:numeric(14,2)"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(14,2)"`
}

func (ItemDTO) TableName() string {
	return "order_items"
}

// HistoryDTO is one append-only status history row.
type HistoryDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq       int       `gorm:"primaryKey;autoIncrement:false"`
	Status    string
	ChangedBy uuid.UUID `gorm:"type:uuid"`
	ChangedAt time.Time
}

func (HistoryDTO) TableName() string {
	return "order_status_history"
}

type PhotoDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int       `gorm:"primaryKey;autoIncrement:false"`
	URL        string    `gorm:"column:url"`
	Type       string
	UploadedAt time.Time
}

func (PhotoDTO) TableName() string {
	return "order_photos"
}

func fromDomain(o *order.Order) OrderDTO {
	id := o.ID().Bytes()
	pricing := o.Pricing()

	dto := OrderDTO{
		ID:                 id,
		Number:             o.Number().String(),
		ClientID:           o.Client().Bytes(),
		PropertyID:         optionalID(o.Property()),
		ServiceType:        string(o.ServiceType()),
		PickupDate:         o.PickupDate(),
		PickupWindowStart:  o.PickupWindow().Start(),
		PickupWindowEnd:    o.PickupWindow().End(),
		EstimatedBags:      o.EstimatedBags(),
		ActualBags:         o.ActualBags(),
		SpecialNotes:       o.SpecialNotes(),
		DeliverID:          optionalID(o.DeliverID()),
		Status:             o.Status().String(),
		ConfirmationMethod: string(o.ConfirmationMethod()),
		Subtotal:           pricing.Subtotal().Decimal(),
		VATPercentage:      pricing.VATPercentage(),
		VATAmount:          pricing.VATAmount().Decimal(),
		Total:              pricing.Total().Decimal(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
	}

	for i, item := range o.Items() {
		dto.Items = append(dto.Items, ItemDTO{
			OrderID:    id,
			Position:   i,
			Code:       item.Code(),
			Name:       item.Name(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().Decimal(),
			TotalPrice: item.TotalPrice().Decimal(),
		})
	}
	for i, h := range o.History() {
		dto.History = append(dto.History, HistoryDTO{
			OrderID:   id,
			Seq:       i,
			Status:    h.Status().String(),
			ChangedBy: h.ChangedBy().Bytes(),
			ChangedAt: h.Timestamp(),
		})
	}
	for i, p := range o.Photos() {
		dto.Photos = append(dto.Photos, PhotoDTO{
			OrderID:    id,
			Seq:        i,
			URL:        p.URL(),
			Type:       string(p.Type()),
			UploadedAt: p.UploadedAt(),
		})
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	client, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}
	property, err := restoreOptionalID(dto.PropertyID)
	if err != nil {
		return nil, err
	}
	deliverID, err := restoreOptionalID(dto.DeliverID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	window, err := order.NewPickupWindow(dto.PickupWindowStart, dto.PickupWindowEnd)
	if err != nil {
		return nil, err
	}
	pricing, err := restorePricing(dto)
	if err != nil {
		return nil, err
	}

	items, err := restoreItems(dto.Items)
	if err != nil {
		return nil, err
	}
	history, err := restoreHistory(dto.History)
	if err != nil {
		return nil, err
	}
	photos, err := restorePhotos(dto.Photos)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                 id,
		Number:             order.Number(dto.Number),
		Client:             client,
		Property:           property,
		ServiceType:        order.ServiceType(dto.ServiceType),
		PickupDate:         dto.PickupDate,
		PickupWindow:       window,
		EstimatedBags:      dto.EstimatedBags,
		ActualBags:         dto.ActualBags,
		SpecialNotes:       dto.SpecialNotes,
		DeliverID:          deliverID,
		Status:             status,
		ConfirmationMethod: order.ConfirmationMethod(dto.ConfirmationMethod),
		Items:              items,
		Pricing:            pricing,
		History:            history,
		Photos:             photos,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
	})
}

func restorePricing(dto OrderDTO) (order.PricingSnapshot, error) {
	subtotal, subErr := kernel.NewMoney(dto.Subtotal)
	vatAmount, vatErr := kernel.NewMoney(dto.VATAmount)
	total, totalErr := kernel.NewMoney(dto.Total)
	if err := errors.Join(subErr, vatErr, totalErr); err != nil {
		return order.PricingSnapshot{}, err
	}
	return order.NewPricingSnapshot(subtotal, dto.VATPercentage, vatAmount, total)
}

func restoreItems(dtos []ItemDTO) ([]order.Item, error) {
	items := make([]order.Item, 0, len(dtos))
	for _, dto := range dtos {
		price, err := kernel.NewMoney(dto.UnitPrice)
		if err != nil {
			return nil, err
		}
		item, err := order.NewItem(dto.Code, dto.Name, dto.Quantity, price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func restoreHistory(dtos []HistoryDTO) ([]order.HistoryEntry, error) {
	history := make([]order.HistoryEntry, 0, len(dtos))
	for _, dto := range dtos {
		status, err := order.ParseStatus(dto.Status)
		if err != nil {
			return nil, err
		}
		changedBy, err := kernel.UUIDFromBytes(dto.ChangedBy[:])
		if err != nil {
			return nil, err
		}
		entry, err := order.RestoreHistoryEntry(status, changedBy, dto.ChangedAt)
		if err != nil {
			return nil, err
		}
		history = append(history, entry)
	}
	return history, nil
}

func restorePhotos(dtos []PhotoDTO) ([]order.Photo, error) {
	photos := make([]order.Photo, 0, len(dtos))
	for _, dto := range dtos {
		photo, err := order.RestorePhoto(dto.URL, order.PhotoType(dto.Type), dto.UploadedAt)
		if err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}
	return photos, nil
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreOptionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent reference
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
