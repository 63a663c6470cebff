package invoiceapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/craftable/errx/errxfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/facturamelo/invoice"
)

type memoryRepo struct {
	invoices   map[string]invoice.Invoice
	lastFilter invoice.ListFilter
}

func newMemoryRepo(invoices ...invoice.Invoice) *memoryRepo {
	r := &memoryRepo{invoices: make(map[string]invoice.Invoice)}
	for _, inv := range invoices {
		r.invoices[inv.InvoiceNumber] = inv
	}
	return r
}

func (r *memoryRepo) Save(_ context.Context, inv invoice.Invoice) (string, error) {
	r.invoices[inv.InvoiceNumber] = inv
	return inv.InvoiceNumber, nil
}

func (r *memoryRepo) FindByNumber(_ context.Context, number string) (*invoice.Invoice, error) {
	inv, ok := r.invoices[number]
	if !ok {
		return nil, invoice.ErrInvoiceNotFound().WithDetail("invoice_number", number)
	}
	return &inv, nil
}

func (r *memoryRepo) List(_ context.Context, filter invoice.ListFilter) ([]invoice.Invoice, error) {
	r.lastFilter = filter
	result := make([]invoice.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		result = append(result, inv)
	}
	return result, nil
}

func (r *memoryRepo) Delete(_ context.Context, number string) (bool, error) {
	if _, ok := r.invoices[number]; !ok {
		return false, nil
	}
	delete(r.invoices, number)
	return true, nil
}

func testInvoice(number string) invoice.Invoice {
	return invoice.Invoice{
		InvoiceNumber: number,
		Date:          time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		VendorName:    "ACME",
		TotalAmount:   100.00,
		Currency:      "USD",
	}
}

func testApp(repo invoice.Repository) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errxfiber.FiberErrorHandler(),
	})
	NewInvoiceHandler(repo).RegisterRoutes(app)
	return app
}

func TestListInvoices(t *testing.T) {
	repo := newMemoryRepo(testInvoice("F-1"), testInvoice("F-2"))
	app := testApp(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Invoices []invoice.Invoice `json:"invoices"`
		Count    int               `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.Invoices, 2)
}

func TestListInvoicesParsesFilters(t *testing.T) {
	repo := newMemoryRepo()
	app := testApp(repo)

	req := httptest.NewRequest(http.MethodGet,
		"/api/invoices/?vendor=ACME&date_from=2025-01-01&date_to=2025-06-30", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "ACME", repo.lastFilter.VendorName)
	require.NotNil(t, repo.lastFilter.DateFrom)
	require.NotNil(t, repo.lastFilter.DateTo)
	assert.Equal(t, "2025-01-01", repo.lastFilter.DateFrom.Format("2006-01-02"))
	assert.Equal(t, "2025-06-30", repo.lastFilter.DateTo.Format("2006-01-02"))
}

func TestListInvoicesRejectsBadDate(t *testing.T) {
	app := testApp(newMemoryRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/?date_from=15-junio", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListInvoicesRejectsInvertedRange(t *testing.T) {
	app := testApp(newMemoryRepo())

	req := httptest.NewRequest(http.MethodGet,
		"/api/invoices/?date_from=2025-06-30&date_to=2025-01-01", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetInvoice(t *testing.T) {
	app := testApp(newMemoryRepo(testInvoice("F-1")))

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/F-1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var inv invoice.Invoice
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&inv))
	assert.Equal(t, "F-1", inv.InvoiceNumber)
	assert.Equal(t, "ACME", inv.VendorName)
}

func TestGetInvoiceNotFound(t *testing.T) {
	app := testApp(newMemoryRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/nope", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteInvoice(t *testing.T) {
	repo := newMemoryRepo(testInvoice("F-1"))
	app := testApp(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/invoices/F-1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, repo.invoices)

	// Segunda eliminación del mismo número: ya no existe
	req = httptest.NewRequest(http.MethodDelete, "/api/invoices/F-1", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
