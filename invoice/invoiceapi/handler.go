package invoiceapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Abraxas-365/facturamelo/invoice"
)

const queryDateLayout = "2006-01-02"

// InvoiceHandler expone consultas administrativas sobre facturas almacenadas
type InvoiceHandler struct {
	repo invoice.Repository
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(repo invoice.Repository) *InvoiceHandler {
	return &InvoiceHandler{repo: repo}
}

// RegisterRoutes configures invoice API routes
func (h *InvoiceHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/invoices")

	api.Get("/", h.ListInvoices)
	api.Get("/:number", h.GetInvoice)
	api.Delete("/:number", h.DeleteInvoice)
}

// ListInvoices lista facturas con filtros opcionales
// GET /api/invoices?vendor=...&date_from=YYYY-MM-DD&date_to=YYYY-MM-DD
func (h *InvoiceHandler) ListInvoices(c *fiber.Ctx) error {
	filter, err := parseListFilter(c)
	if err != nil {
		return err
	}

	invoices, err := h.repo.List(c.Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"invoices": invoices,
		"count":    len(invoices),
	})
}

// GetInvoice busca una factura por número
// GET /api/invoices/:number
func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	number := c.Params("number")

	inv, err := h.repo.FindByNumber(c.Context(), number)
	if err != nil {
		return err
	}

	return c.JSON(inv)
}

// DeleteInvoice elimina una factura por número
// DELETE /api/invoices/:number
func (h *InvoiceHandler) DeleteInvoice(c *fiber.Ctx) error {
	number := c.Params("number")

	deleted, err := h.repo.Delete(c.Context(), number)
	if err != nil {
		return err
	}

	if !deleted {
		return invoice.ErrInvoiceNotFound().WithDetail("invoice_number", number)
	}

	return c.JSON(fiber.Map{
		"invoice_number": number,
		"deleted":        true,
	})
}

// parseListFilter arma el ListFilter desde los query params
func parseListFilter(c *fiber.Ctx) (invoice.ListFilter, error) {
	filter := invoice.ListFilter{
		VendorName: c.Query("vendor"),
	}

	if raw := c.Query("date_from"); raw != "" {
		date, err := time.Parse(queryDateLayout, raw)
		if err != nil {
			return invoice.ListFilter{}, invoice.ErrInvalidFilter().
				WithDetail("date_from", raw).
				WithCause(err)
		}
		filter.DateFrom = &date
	}

	if raw := c.Query("date_to"); raw != "" {
		date, err := time.Parse(queryDateLayout, raw)
		if err != nil {
			return invoice.ListFilter{}, invoice.ErrInvalidFilter().
				WithDetail("date_to", raw).
				WithCause(err)
		}
		filter.DateTo = &date
	}

	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return invoice.ListFilter{}, invoice.ErrInvalidFilter().
			WithDetail("reason", "date_to is before date_from")
	}

	return filter, nil
}
