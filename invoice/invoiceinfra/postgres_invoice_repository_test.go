package invoiceinfra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/facturamelo/invoice"
)

func TestBuildListConditionsEmpty(t *testing.T) {
	where, args := buildListConditions(invoice.ListFilter{})

	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildListConditionsVendorOnly(t *testing.T) {
	where, args := buildListConditions(invoice.ListFilter{VendorName: "ACME"})

	assert.Equal(t, "LOWER(vendor_name) = LOWER($1)", where)
	assert.Equal(t, []any{"ACME"}, args)
}

func TestBuildListConditionsAllFilters(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	where, args := buildListConditions(invoice.ListFilter{
		VendorName: "ACME",
		DateFrom:   &from,
		DateTo:     &to,
	})

	assert.Equal(t, "LOWER(vendor_name) = LOWER($1) AND date >= $2 AND date <= $3", where)
	assert.Equal(t, []any{"ACME", "2025-01-01", "2025-06-30"}, args)
}

func TestBuildListConditionsDateRangeOnly(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	where, args := buildListConditions(invoice.ListFilter{DateFrom: &from})

	assert.Equal(t, "date >= $1", where)
	assert.Equal(t, []any{"2025-01-01"}, args)
}

func TestInvoiceRoundTrip(t *testing.T) {
	inv := invoice.Invoice{
		InvoiceNumber: "F001-00123",
		Date:          time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		VendorName:    "Ferretería El Tornillo",
		VendorTaxID:   "20123456789",
		TotalAmount:   118.00,
		TaxAmount:     18.00,
		Currency:      "PEN",
		Items: []invoice.InvoiceItem{
			{Description: "Martillo", Quantity: 2, UnitPrice: 50, Total: 100},
		},
	}

	dbInv, err := toDBInvoice(inv)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15", dbInv.Date)
	assert.True(t, dbInv.VendorTaxID.Valid)

	got, err := toDomainInvoice(dbInv)
	require.NoError(t, err)
	assert.True(t, inv.Date.Equal(got.Date))

	got.Date = inv.Date
	assert.Equal(t, inv, *got)
}

func TestInvoiceRoundTripOptionalFields(t *testing.T) {
	inv := invoice.Invoice{
		InvoiceNumber: "F001-00124",
		Date:          time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		VendorName:    "Vendedor",
		TotalAmount:   50.00,
		Currency:      "USD",
	}

	dbInv, err := toDBInvoice(inv)
	require.NoError(t, err)
	assert.False(t, dbInv.VendorTaxID.Valid)

	got, err := toDomainInvoice(dbInv)
	require.NoError(t, err)
	assert.Empty(t, got.VendorTaxID)
	assert.Empty(t, got.Items)
}

func TestParseDBDate(t *testing.T) {
	want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{"2025-06-15", "2025-06-15T00:00:00Z"} {
		got, err := parseDBDate(raw)
		require.NoError(t, err, "value %q", raw)
		assert.True(t, want.Equal(got), "value %q", raw)
	}

	_, err := parseDBDate("garbage")
	assert.Error(t, err)
}
