package http

import (
	"net/http"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/invoice"
	"laundry/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// InvoiceHandlers serves /api/invoices.
type InvoiceHandlers struct {
	create        commands.CreateInvoiceCommandHandler
	recordPayment commands.RecordPaymentCommandHandler
	markOverdue   commands.MarkOverdueCommandHandler
	list          queries.ListInvoicesQueryHandler
	get           queries.GetInvoiceQueryHandler
}

func NewInvoiceHandlers(
	create commands.CreateInvoiceCommandHandler,
	recordPayment commands.RecordPaymentCommandHandler,
	markOverdue commands.MarkOverdueCommandHandler,
	list queries.ListInvoicesQueryHandler,
	get queries.GetInvoiceQueryHandler,
) *InvoiceHandlers {
	return &InvoiceHandlers{
		create:        create,
		recordPayment: recordPayment,
		markOverdue:   markOverdue,
		list:          list,
		get:           get,
	}
}

// Create handles POST /api/invoices.
func (h *InvoiceHandlers) Create(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req createInvoiceRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	terms, err := req.terms()
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateInvoiceCommand(actor, terms)
	if err != nil {
		return err
	}
	inv, err := h.create.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "Invoice created", presentInvoice(inv))
}

// List handles GET /api/invoices.
func (h *InvoiceHandlers) List(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	filter, err := invoiceFilter(c)
	if err != nil {
		return err
	}

	query, err := queries.NewListInvoicesQuery(actor, filter)
	if err != nil {
		return err
	}
	invoices, err := h.list.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Invoices retrieved", presentInvoices(invoices))
}

// Get handles GET /api/invoices/:id.
func (h *InvoiceHandlers) Get(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetInvoiceQuery(actor, id)
	if err != nil {
		return err
	}
	inv, err := h.get.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Invoice retrieved", presentInvoice(inv))
}

// RecordPayment handles POST /api/invoices/:id/payments.
func (h *InvoiceHandlers) RecordPayment(c echo.Context) error {
	actor, id, err := actorAndID(c)
	if err != nil {
		return err
	}
	var req recordPaymentRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	amount, err := money("amount", req.Amount)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRecordPaymentCommand(actor, id, amount, invoice.PaymentMethod(req.Method), req.TransactionReference)
	if err != nil {
		return err
	}
	inv, err := h.recordPayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Payment recorded", presentInvoice(inv))
}

type markOverdueResult struct {
	ModifiedCount int64 `json:"modifiedCount"`
}

// MarkOverdue handles POST /api/invoices/mark-overdue.
func (h *InvoiceHandlers) MarkOverdue(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewMarkOverdueCommand(actor)
	if err != nil {
		return err
	}
	modified, err := h.markOverdue.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Overdue invoices updated", markOverdueResult{ModifiedCount: modified})
}

func invoiceFilter(c echo.Context) (ports.InvoiceFilter, error) {
	var filter ports.InvoiceFilter

	status, err := queryString(c, "status")
	if err != nil {
		return filter, err
	}
	if status != nil {
		s, parseErr := invoice.ParseStatus(*status)
		if parseErr != nil {
			return filter, parseErr
		}
		filter.Status = &s
	}
	if filter.Client, err = queryUUID(c, "client"); err != nil {
		return filter, err
	}
	if filter.From, err = queryTime(c, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = queryTime(c, "to"); err != nil {
		return filter, err
	}
	return filter, nil
}
