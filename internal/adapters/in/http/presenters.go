package http

import (
	"time"

	"laundry/internal/core/domain/model/invoice"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/route"
)

type ItemView struct {
	ItemCode   string  `json:"item_code"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

type PickupWindowView struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type PricingView struct {
	Subtotal      float64 `json:"subtotal"`
	VATPercentage float64 `json:"vat_percentage"`
	VATAmount     float64 `json:"vat_amount"`
	Total         float64 `json:"total"`
}

type HistoryView struct {
	Status    string    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	Timestamp time.Time `json:"timestamp"`
}

type PhotoView struct {
	PhotoURL   string    `json:"photo_url"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type OrderView struct {
	ID                 string           `json:"id"`
	OrderNumber        string           `json:"order_number"`
	Client             string           `json:"client"`
	Property           *string          `json:"property,omitempty"`
	ServiceType        string           `json:"service_type"`
	PickupDate         time.Time        `json:"pickup_date"`
	PickupWindow       PickupWindowView `json:"pickup_window"`
	EstimatedBags      int              `json:"estimated_bags"`
	ActualBags         int              `json:"actual_bags"`
	SpecialNotes       string           `json:"special_notes"`
	DeliverID          *string          `json:"deliver_id,omitempty"`
	Status             string           `json:"status"`
	ConfirmationMethod string           `json:"confirmation_method,omitempty"`
	Items              []ItemView       `json:"items"`
	PricingSnapshot    PricingView      `json:"pricing_snapshot"`
	StatusHistory      []HistoryView    `json:"status_history"`
	Photos             []PhotoView      `json:"photos"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type RouteView struct {
	ID        string    `json:"id"`
	RouteDate time.Time `json:"route_date"`
	Driver    string    `json:"driver"`
	Area      string    `json:"area"`
	Orders    []string  `json:"orders"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LineItemView struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

type PaymentView struct {
	Amount               float64   `json:"amount"`
	Method               string    `json:"method"`
	TransactionReference string    `json:"transaction_reference"`
	PaidAt               time.Time `json:"paid_at"`
}

type InvoiceView struct {
	ID            string         `json:"id"`
	InvoiceNumber string         `json:"invoice_number"`
	Client        string         `json:"client"`
	Orders        []string       `json:"orders"`
	IssueDate     time.Time      `json:"issue_date"`
	DueDate       time.Time      `json:"due_date"`
	LineItems     []LineItemView `json:"line_items"`
	Subtotal      float64        `json:"subtotal"`
	VATPercentage float64        `json:"vat_percentage"`
	VATAmount     float64        `json:"vat_amount"`
	Total         float64        `json:"total"`
	AmountPaid    float64        `json:"amount_paid"`
	Status        string         `json:"status"`
	Payments      []PaymentView  `json:"payments"`
	CreatedAt     time.Time      `json:"created_at"`
}

func presentOrder(o *order.Order) OrderView {
	p := o.Pricing()
	vat, _ := p.VATPercentage().Float64()

	v := OrderView{
		ID:            o.ID().String(),
		OrderNumber:   o.Number().String(),
		Client:        o.Client().String(),
		Property:      optionalID(o.Property()),
		ServiceType:   string(o.ServiceType()),
		PickupDate:    o.PickupDate(),
		PickupWindow:  PickupWindowView{StartTime: o.PickupWindow().Start(), EndTime: o.PickupWindow().End()},
		EstimatedBags: o.EstimatedBags(),
		ActualBags:    o.ActualBags(),
		SpecialNotes:  o.SpecialNotes(),
		DeliverID:     optionalID(o.DeliverID()),
		Status:        o.Status().String(),
		Items:         make([]ItemView, 0, len(o.Items())),
		PricingSnapshot: PricingView{
			Subtotal:      p.Subtotal().Float64(),
			VATPercentage: vat,
			VATAmount:     p.VATAmount().Float64(),
			Total:         p.Total().Float64(),
		},
		StatusHistory:      make([]HistoryView, 0, len(o.History())),
		Photos:             make([]PhotoView, 0, len(o.Photos())),
		ConfirmationMethod: string(o.ConfirmationMethod()),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
	}
	for _, it := range o.Items() {
		v.Items = append(v.Items, ItemView{
			ItemCode:   it.Code(),
			Name:       it.Name(),
			Quantity:   it.Quantity(),
			UnitPrice:  it.UnitPrice().Float64(),
			TotalPrice: it.TotalPrice().Float64(),
		})
	}
	for _, h := range o.History() {
		v.StatusHistory = append(v.StatusHistory, HistoryView{
			Status:    h.Status().String(),
			ChangedBy: h.ChangedBy().String(),
			Timestamp: h.Timestamp(),
		})
	}
	for _, ph := range o.Photos() {
		v.Photos = append(v.Photos, PhotoView{PhotoURL: ph.URL(), Type: string(ph.Type()), UploadedAt: ph.UploadedAt()})
	}
	return v
}

func presentOrders(orders []*order.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, presentOrder(o))
	}
	return out
}

func presentRoute(r *route.Route) RouteView {
	return RouteView{
		ID:        r.ID().String(),
		RouteDate: r.Date(),
		Driver:    r.Driver().String(),
		Area:      r.Area(),
		Orders:    idStrings(r.Orders()),
		Status:    r.Status().String(),
		CreatedAt: r.CreatedAt(),
		UpdatedAt: r.UpdatedAt(),
	}
}

func presentRoutes(routes []*route.Route) []RouteView {
	out := make([]RouteView, 0, len(routes))
	for _, r := range routes {
		out = append(out, presentRoute(r))
	}
	return out
}

func presentInvoice(i *invoice.Invoice) InvoiceView {
	vat, _ := i.VATPercentage().Float64()
	v := InvoiceView{
		ID:            i.ID().String(),
		InvoiceNumber: i.Number().String(),
		Client:        i.Client().String(),
		Orders:        idStrings(i.Orders()),
		IssueDate:     i.IssueDate(),
		DueDate:       i.DueDate(),
		LineItems:     make([]LineItemView, 0, len(i.LineItems())),
		Subtotal:      i.Subtotal().Float64(),
		VATPercentage: vat,
		VATAmount:     i.VATAmount().Float64(),
		Total:         i.Total().Float64(),
		AmountPaid:    i.AmountPaid().Float64(),
		Status:        i.Status().String(),
		Payments:      make([]PaymentView, 0, len(i.Payments())),
		CreatedAt:     i.CreatedAt(),
	}
	for _, li := range i.LineItems() {
		v.LineItems = append(v.LineItems, LineItemView{
			Description: li.Description(),
			Quantity:    li.Quantity(),
			UnitPrice:   li.UnitPrice().Float64(),
			TotalPrice:  li.TotalPrice().Float64(),
		})
	}
	for _, p := range i.Payments() {
		v.Payments = append(v.Payments, PaymentView{
			Amount:               p.Amount().Float64(),
			Method:               string(p.Method()),
			TransactionReference: p.Reference(),
			PaidAt:               p.PaidAt(),
		})
	}
	return v
}

func presentInvoices(invoices []*invoice.Invoice) []InvoiceView {
	out := make([]InvoiceView, 0, len(invoices))
	for _, i := range invoices {
		out = append(out, presentInvoice(i))
	}
	return out
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func idStrings(ids []kernel.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
