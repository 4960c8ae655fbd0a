package http

import (
	"errors"
	"time"

	"laundry/internal/core/domain/model/invoice"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/route"
	"laundry/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// defaultInvoiceVAT applies when an invoice request omits vat_percentage.
var defaultInvoiceVAT = decimal.NewFromInt(18)

type itemRequest struct {
	ItemCode  string          `json:"item_code" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	// TotalPrice is accepted for compatibility; the stored total is quantity times unit price.
	TotalPrice *decimal.Decimal `json:"total_price,omitempty"`
}

type pickupWindowRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

type pricingRequest struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	VATPercentage decimal.Decimal `json:"vat_percentage"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
	Total         decimal.Decimal `json:"total"`
}

type photoRequest struct {
	PhotoURL string `json:"photo_url" validate:"required,url"`
	Type     string `json:"type" validate:"required,oneof=before after"`
}

type createOrderRequest struct {
	Client        string              `json:"client" validate:"required"`
	Property      *string             `json:"property,omitempty"`
	ServiceType   string              `json:"service_type" validate:"required,oneof=standard express"`
	PickupDate    time.Time           `json:"pickup_date" validate:"required"`
	PickupWindow  pickupWindowRequest `json:"pickup_window"`
	EstimatedBags int                 `json:"estimated_bags" validate:"gte=0"`
	SpecialNotes  string              `json:"special_notes"`
	Items         []itemRequest       `json:"items" validate:"omitempty,dive"`
	Pricing       *pricingRequest     `json:"pricing_snapshot,omitempty"`
}

type updateOrderRequest struct {
	ServiceType   *string              `json:"service_type,omitempty" validate:"omitempty,oneof=standard express"`
	PickupDate    *time.Time           `json:"pickup_date,omitempty"`
	PickupWindow  *pickupWindowRequest `json:"pickup_window,omitempty"`
	EstimatedBags *int                 `json:"estimated_bags,omitempty" validate:"omitempty,gte=0"`
	SpecialNotes  *string              `json:"special_notes,omitempty"`
	Items         []itemRequest        `json:"items" validate:"omitempty,dive"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type confirmPickupRequest struct {
	ActualBags int            `json:"actual_bags" validate:"gt=0"`
	Photos     []photoRequest `json:"photos" validate:"omitempty,dive"`
	Items      []itemRequest  `json:"items" validate:"omitempty,dive"`
	Notes      string         `json:"notes"`
}

type receiveAtFacilityRequest struct {
	Items         []itemRequest `json:"items" validate:"omitempty,dive"`
	InternalNotes string        `json:"internal_notes"`
}

type confirmDeliveryRequest struct {
	Photos             []photoRequest `json:"photos" validate:"omitempty,dive"`
	ConfirmationMethod string         `json:"confirmation_method" validate:"required,oneof=signature pin photo"`
	Notes              string         `json:"notes"`
}

type createRouteRequest struct {
	RouteDate time.Time `json:"route_date" validate:"required"`
	Driver    string    `json:"driver" validate:"required"`
	Area      string    `json:"area" validate:"required"`
	Orders    []string  `json:"orders" validate:"omitempty,dive,required"`
}

type updateRouteRequest struct {
	RouteDate *time.Time `json:"route_date,omitempty"`
	Driver    *string    `json:"driver,omitempty" validate:"omitempty,min=1"`
	Area      *string    `json:"area,omitempty" validate:"omitempty,min=1"`
	Orders    []string   `json:"orders" validate:"omitempty,dive,required"`
	Status    *string    `json:"status,omitempty" validate:"omitempty,oneof=planned in_progress completed"`
}

type updateRouteStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=planned in_progress completed"`
}

type lineItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type createInvoiceRequest struct {
	Client        string            `json:"client" validate:"required"`
	Orders        []string          `json:"orders" validate:"required,min=1,dive,required"`
	DueDate       time.Time         `json:"due_date" validate:"required"`
	LineItems     []lineItemRequest `json:"line_items" validate:"required,min=1,dive"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	VATPercentage *decimal.Decimal  `json:"vat_percentage,omitempty"`
	VATAmount     decimal.Decimal   `json:"vat_amount"`
	Total         decimal.Decimal   `json:"total"`
}

type recordPaymentRequest struct {
	Amount               decimal.Decimal `json:"amount"`
	Method               string          `json:"method" validate:"required,oneof=cash bank_transfer card"`
	TransactionReference string          `json:"transaction_reference" validate:"required"`
}

func (r createOrderRequest) details() (order.Details, *order.PricingSnapshot, error) {
	client, clientErr := parseID("client", r.Client)
	property, propertyErr := parseOptionalID("property", r.Property)
	window, windowErr := r.PickupWindow.toDomain()
	items, itemsErr := toItems(r.Items)
	if err := errors.Join(clientErr, propertyErr, windowErr, itemsErr); err != nil {
		return order.Details{}, nil, err
	}

	var pricing *order.PricingSnapshot
	if r.Pricing != nil {
		p, err := r.Pricing.toDomain()
		if err != nil {
			return order.Details{}, nil, err
		}
		pricing = &p
	}

	return order.Details{
		Client:        client,
		Property:      property,
		ServiceType:   order.ServiceType(r.ServiceType),
		PickupDate:    r.PickupDate,
		PickupWindow:  window,
		EstimatedBags: r.EstimatedBags,
		SpecialNotes:  r.SpecialNotes,
		Items:         items,
	}, pricing, nil
}

func (r updateOrderRequest) patch() (order.Patch, error) {
	var p order.Patch
	if r.ServiceType != nil {
		t := order.ServiceType(*r.ServiceType)
		p.ServiceType = &t
	}
	p.PickupDate = r.PickupDate
	if r.PickupWindow != nil {
		w, err := r.PickupWindow.toDomain()
		if err != nil {
			return order.Patch{}, err
		}
		p.PickupWindow = &w
	}
	p.EstimatedBags = r.EstimatedBags
	p.SpecialNotes = r.SpecialNotes
	if r.Items != nil {
		items, err := toItems(r.Items)
		if err != nil {
			return order.Patch{}, err
		}
		p.Items = items
	}
	return p, nil
}

func (r confirmPickupRequest) confirmation() (order.PickupConfirmation, error) {
	c := order.PickupConfirmation{
		ActualBags: r.ActualBags,
		Photos:     toUploads(r.Photos),
		Notes:      r.Notes,
	}
	if r.Items != nil {
		items, err := toItems(r.Items)
		if err != nil {
			return order.PickupConfirmation{}, err
		}
		c.Items = items
	}
	return c, nil
}

func (r confirmDeliveryRequest) confirmation() order.DeliveryConfirmation {
	return order.DeliveryConfirmation{
		Method: order.ConfirmationMethod(r.ConfirmationMethod),
		Photos: toUploads(r.Photos),
		Notes:  r.Notes,
	}
}

func (r updateRouteRequest) patch() (route.Patch, error) {
	p := route.Patch{Date: r.RouteDate, Area: r.Area}
	if r.Driver != nil {
		driver, err := parseID("driver", *r.Driver)
		if err != nil {
			return route.Patch{}, err
		}
		p.Driver = &driver
	}
	if r.Orders != nil {
		orders, err := parseIDs("orders", r.Orders)
		if err != nil {
			return route.Patch{}, err
		}
		p.Orders = orders
	}
	if r.Status != nil {
		s, err := route.ParseStatus(*r.Status)
		if err != nil {
			return route.Patch{}, err
		}
		p.Status = &s
	}
	return p, nil
}

func (r createInvoiceRequest) terms() (invoice.Terms, error) {
	client, clientErr := parseID("client", r.Client)
	orders, ordersErr := parseIDs("orders", r.Orders)
	subtotal, subErr := money("subtotal", r.Subtotal)
	vatAmount, vatErr := money("vat_amount", r.VATAmount)
	total, totalErr := money("total", r.Total)
	if err := errors.Join(clientErr, ordersErr, subErr, vatErr, totalErr); err != nil {
		return invoice.Terms{}, err
	}

	lineItems := make([]invoice.LineItem, 0, len(r.LineItems))
	for _, li := range r.LineItems {
		unit, unitErr := money("unit_price", li.UnitPrice)
		lineTotal, lineErr := money("total_price", li.TotalPrice)
		if err := errors.Join(unitErr, lineErr); err != nil {
			return invoice.Terms{}, err
		}
		item, err := invoice.NewLineItem(li.Description, li.Quantity, unit, lineTotal)
		if err != nil {
			return invoice.Terms{}, err
		}
		lineItems = append(lineItems, item)
	}

	vat := defaultInvoiceVAT
	if r.VATPercentage != nil {
		vat = *r.VATPercentage
	}

	return invoice.Terms{
		Client:        client,
		Orders:        orders,
		DueDate:       r.DueDate,
		LineItems:     lineItems,
		Subtotal:      subtotal,
		VATPercentage: vat,
		VATAmount:     vatAmount,
		Total:         total,
	}, nil
}

func (w pickupWindowRequest) toDomain() (order.PickupWindow, error) {
	return order.NewPickupWindow(w.StartTime, w.EndTime)
}

func (p pricingRequest) toDomain() (order.PricingSnapshot, error) {
	subtotal, subErr := money("pricing_snapshot.subtotal", p.Subtotal)
	vatAmount, vatErr := money("pricing_snapshot.vat_amount", p.VATAmount)
	total, totalErr := money("pricing_snapshot.total", p.Total)
	if err := errors.Join(subErr, vatErr, totalErr); err != nil {
		return order.PricingSnapshot{}, err
	}
	return order.NewPricingSnapshot(subtotal, p.VATPercentage, vatAmount, total)
}

func toItems(reqs []itemRequest) ([]order.Item, error) {
	if reqs == nil {
		return nil, nil
	}
	items := make([]order.Item, 0, len(reqs))
	for _, r := range reqs {
		unit, err := money("unit_price", r.UnitPrice)
		if err != nil {
			return nil, err
		}
		item, err := order.NewItem(r.ItemCode, r.Name, r.Quantity, unit)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func toUploads(reqs []photoRequest) []order.PhotoUpload {
	uploads := make([]order.PhotoUpload, 0, len(reqs))
	for _, r := range reqs {
		uploads = append(uploads, order.PhotoUpload{URL: r.PhotoURL, Type: order.PhotoType(r.Type)})
	}
	return uploads
}

func money(field string, d decimal.Decimal) (kernel.Money, error) {
	m, err := kernel.NewMoney(d)
	if err != nil {
		return kernel.Money{}, errs.NewValueIsInvalidErrorWithCause(field, err)
	}
	return m, nil
}

func parseID(field, raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(field, err)
	}
	return id, nil
}

func parseOptionalID(field string, raw *string) (*kernel.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := parseID(field, *raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseIDs(field string, raw []string) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(field, r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
