package invoiceinfra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Abraxas-365/facturamelo/invoice"
)

func TestBuildMongoFilterEmpty(t *testing.T) {
	query := buildMongoFilter(invoice.ListFilter{})
	assert.Empty(t, query)
}

func TestBuildMongoFilterVendorAnchored(t *testing.T) {
	query := buildMongoFilter(invoice.ListFilter{VendorName: "ACME S.A."})

	regex, ok := query["vendor_name"].(primitive.Regex)
	require.True(t, ok)

	// Anclado y con los metacaracteres escapados: igualdad exacta, no substring
	assert.Equal(t, `^ACME S\.A\.$`, regex.Pattern)
	assert.Equal(t, "i", regex.Options)
}

func TestBuildMongoFilterDateRange(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	query := buildMongoFilter(invoice.ListFilter{DateFrom: &from, DateTo: &to})

	dateRange, ok := query["date"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, primitive.NewDateTimeFromTime(from), dateRange["$gte"])
	assert.Equal(t, primitive.NewDateTimeFromTime(to), dateRange["$lte"])
}

func TestMongoInvoiceRoundTrip(t *testing.T) {
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

	doc := toMongoInvoice(inv)

	// _id es el número de factura: la clave natural del upsert
	assert.Equal(t, inv.InvoiceNumber, doc.ID)

	got := toDomainFromMongo(doc)
	assert.True(t, inv.Date.Equal(got.Date))

	got.Date = inv.Date
	assert.Equal(t, inv, *got)
}
