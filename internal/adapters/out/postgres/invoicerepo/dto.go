// Package invoicerepo persists invoices. Line items are kept as a jsonb array
// on the invoice row; referenced orders and payments live in child tables.
package invoicerepo

import (
	"encoding/json"
	"errors"
	"time"

	"laundry/internal/core/domain/model/invoice"
	"laundry/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type InvoiceDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number        string          `gorm:"type:varchar(20);not null;uniqueIndex:invoices_number_key"`
	ClientID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	IssueDate     time.Time       `gorm:"not null"`
	DueDate       time.Time       `gorm:"not null"`
	LineItems     datatypes.JSON  `gorm:"type:jsonb;not null"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(14,2)"`
	VATPercentage decimal.Decimal `gorm:"column:vat_percentage;type:numeric(5,2)"`
	VATAmount     decimal.Decimal `gorm:"column:vat_amount;type:numeric(14,2)"`
	Total         decimal.Decimal `gorm:"type:numeric(14,2)"`
	Status        string          `gorm:"type:varchar(16);not null"`
	CreatedAt     time.Time       `gorm:"autoCreateTime:false"`

	Orders   []InvoiceOrderDTO `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Payments []PaymentDTO      `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

func (InvoiceDTO) TableName() string {
	return "invoices"
}

type InvoiceOrderDTO struct {
	InvoiceID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int       `gorm:"primaryKey;autoIncrement:false"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null"`
}

func (InvoiceOrderDTO) TableName() string {
	return "invoice_orders"
}

type PaymentDTO struct {
	InvoiceID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Seq       int             `gorm:"primaryKey;autoIncrement:false"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2)"`
	Method    string          `gorm:"type:varchar(16)"`
	Reference string
	PaidAt    time.Time
}

func (PaymentDTO) TableName() string {
	return "invoice_payments"
}

// lineItemJSON is the stored shape of one element of invoices.line_items.
type lineItemJSON struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

func fromDomain(inv *invoice.Invoice) (InvoiceDTO, error) {
	items := make([]lineItemJSON, 0, len(inv.LineItems()))
	for _, li := range inv.LineItems() {
		items = append(items, lineItemJSON{
			Description: li.Description(),
			Quantity:    li.Quantity(),
			UnitPrice:   li.UnitPrice().Decimal(),
			TotalPrice:  li.TotalPrice().Decimal(),
		})
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return InvoiceDTO{}, err
	}

	id := inv.ID().Bytes()
	dto := InvoiceDTO{
		ID:            id,
		Number:        inv.Number().String(),
		ClientID:      inv.Client().Bytes(),
		IssueDate:     inv.IssueDate(),
		DueDate:       inv.DueDate(),
		LineItems:     datatypes.JSON(raw),
		Subtotal:      inv.Subtotal().Decimal(),
		VATPercentage: inv.VATPercentage(),
		VATAmount:     inv.VATAmount().Decimal(),
		Total:         inv.Total().Decimal(),
		Status:        inv.Status().String(),
		CreatedAt:     inv.CreatedAt(),
	}
	for i, orderID := range inv.Orders() {
		dto.Orders = append(dto.Orders, InvoiceOrderDTO{InvoiceID: id, Position: i, OrderID: orderID.Bytes()})
	}
	for i, p := range inv.Payments() {
		dto.Payments = append(dto.Payments, PaymentDTO{
			InvoiceID: id,
			Seq:       i,
			Amount:    p.Amount().Decimal(),
			Method:    string(p.Method()),
			Reference: p.Reference(),
			PaidAt:    p.PaidAt(),
		})
	}
	return dto, nil
}

func toDomain(dto InvoiceDTO) (*invoice.Invoice, error) {
	id, idErr := kernel.UUIDFromBytes(dto.ID[:])
	client, clientErr := kernel.UUIDFromBytes(dto.ClientID[:])
	number, numberErr := invoice.ParseNumber(dto.Number)
	status, statusErr := invoice.ParseStatus(dto.Status)
	if err := errors.Join(idErr, clientErr, numberErr, statusErr); err != nil {
		return nil, err
	}

	lineItems, err := restoreLineItems(dto.LineItems)
	if err != nil {
		return nil, err
	}
	orders, err := restoreOrders(dto.Orders)
	if err != nil {
		return nil, err
	}
	payments, err := restorePayments(dto.Payments)
	if err != nil {
		return nil, err
	}

	subtotal, subErr := kernel.NewMoney(dto.Subtotal)
	vatAmount, vatErr := kernel.NewMoney(dto.VATAmount)
	total, totalErr := kernel.NewMoney(dto.Total)
	if err := errors.Join(subErr, vatErr, totalErr); err != nil {
		return nil, err
	}

	return invoice.RestoreInvoice(invoice.Snapshot{
		ID:     id,
		Number: number,
		Terms: invoice.Terms{
			Client:        client,
			Orders:        orders,
			DueDate:       dto.DueDate,
			LineItems:     lineItems,
			Subtotal:      subtotal,
			VATPercentage: dto.VATPercentage,
			VATAmount:     vatAmount,
			Total:         total,
		},
		IssueDate: dto.IssueDate,
		Status:    status,
		Payments:  payments,
		CreatedAt: dto.CreatedAt,
	})
}

func restoreLineItems(raw datatypes.JSON) ([]invoice.LineItem, error) {
	var stored []lineItemJSON
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &stored); err != nil {
			return nil, err
		}
	}

	items := make([]invoice.LineItem, 0, len(stored))
	for _, s := range stored {
		unit, unitErr := kernel.NewMoney(s.UnitPrice)
		total, totalErr := kernel.NewMoney(s.TotalPrice)
		if err := errors.Join(unitErr, totalErr); err != nil {
			return nil, err
		}
		li, err := invoice.NewLineItem(s.Description, s.Quantity, unit, total)
		if err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	return items, nil
}

func restoreOrders(dtos []InvoiceOrderDTO) ([]kernel.UUID, error) {
	orders := make([]kernel.UUID, 0, len(dtos))
	for _, o := range dtos {
		id, err := kernel.UUIDFromBytes(o.OrderID[:])
		if err != nil {
			return nil, err
		}
		orders = append(orders, id)
	}
	return orders, nil
}

func restorePayments(dtos []PaymentDTO) ([]invoice.Payment, error) {
	payments := make([]invoice.Payment, 0, len(dtos))
	for _, p := range dtos {
		amount, err := kernel.NewMoney(p.Amount)
		if err != nil {
			return nil, err
		}
		payment, err := invoice.NewPayment(amount, invoice.PaymentMethod(p.Method), p.Reference, p.PaidAt)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, nil
}
