// Package routerepo persists route aggregates and their ordered order references.
package routerepo

import (
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/route"

	"github.com/google/uuid"
)

type RouteDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RouteDate time.Time `gorm:"not null;index"`
	DriverID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Area      string    `gorm:"type:varchar(255);not null"`
	Status    string    `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`

	Orders []RouteOrderDTO `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`
}

func (RouteDTO) TableName() string {
	return "routes"
}

// RouteOrderDTO keeps the position of an order within its route.
type RouteOrderDTO struct {
	RouteID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position int       `gorm:"primaryKey;autoIncrement:false"`
	OrderID  uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (RouteOrderDTO) TableName() string {
	return "route_orders"
}

func fromDomain(r *route.Route) RouteDTO {
	id := r.ID().Bytes()
	dto := RouteDTO{
		ID:        id,
		RouteDate: r.Date(),
		DriverID:  r.Driver().Bytes(),
		Area:      r.Area(),
		Status:    r.Status().String(),
		CreatedAt: r.CreatedAt(),
		UpdatedAt: r.UpdatedAt(),
	}
	for i, orderID := range r.Orders() {
		dto.Orders = append(dto.Orders, RouteOrderDTO{RouteID: id, Position: i, OrderID: orderID.Bytes()})
	}
	return dto
}

func toDomain(dto RouteDTO) (*route.Route, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	driver, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}
	status, err := route.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	orders := make([]kernel.UUID, 0, len(dto.Orders))
	for _, ro := range dto.Orders {
		orderID, idErr := kernel.UUIDFromBytes(ro.OrderID[:])
		if idErr != nil {
			return nil, idErr
		}
		orders = append(orders, orderID)
	}

	return route.RestoreRoute(id, dto.RouteDate, driver, dto.Area, orders, status, dto.CreatedAt, dto.UpdatedAt)
}
