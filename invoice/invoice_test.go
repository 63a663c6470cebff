package invoice

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvoice() Invoice {
	return Invoice{
		InvoiceNumber: "F001-00123",
		Date:          time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		VendorName:    "Ferretería El Tornillo",
		VendorTaxID:   "20123456789",
		TotalAmount:   118.00,
		TaxAmount:     18.00,
		Currency:      "PEN",
		Items: []InvoiceItem{
			{Description: "Martillo", Quantity: 2, UnitPrice: 25.00, Total: 50.00},
			{Description: "Clavos x100", Quantity: 5, UnitPrice: 10.00, Total: 50.00},
		},
	}
}

func TestIsValid(t *testing.T) {
	inv := sampleInvoice()
	assert.True(t, inv.IsValid())

	noNumber := sampleInvoice()
	noNumber.InvoiceNumber = ""
	assert.False(t, noNumber.IsValid())

	zeroTotal := sampleInvoice()
	zeroTotal.TotalAmount = 0
	assert.False(t, zeroTotal.IsValid())

	negativeTotal := sampleInvoice()
	negativeTotal.TotalAmount = -10
	assert.False(t, negativeTotal.IsValid())
}

func TestSubtotal(t *testing.T) {
	inv := sampleInvoice()
	assert.InDelta(t, 100.00, inv.Subtotal(), 0.001)

	empty := Invoice{}
	assert.Zero(t, empty.Subtotal())
}

func TestValidateAmounts(t *testing.T) {
	items := []InvoiceItem{
		{Description: "A", Quantity: 1, UnitPrice: 50, Total: 50},
		{Description: "B", Quantity: 1, UnitPrice: 50, Total: 50},
	}

	tests := []struct {
		name        string
		totalAmount float64
		taxAmount   float64
		want        bool
	}{
		{"exact match", 118.00, 18.00, true},
		{"within tolerance", 118.009, 18.00, true},
		{"at tolerance boundary", 118.01, 18.00, false},
		{"total too high", 120.00, 18.00, false},
		{"total too low", 110.00, 18.00, false},
		{"no tax", 100.00, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateAmounts(items, tt.totalAmount, tt.taxAmount))
		})
	}
}

func TestValidateAmountsEmptyItems(t *testing.T) {
	// Sin ítems el subtotal es cero: solo el impuesto debe explicar el total
	assert.True(t, ValidateAmounts(nil, 18.00, 18.00))
	assert.False(t, ValidateAmounts(nil, 118.00, 18.00))
}

func TestVisionResultSerializesUsage(t *testing.T) {
	// El bloque de uso siempre se serializa, incluso en cero
	data, err := json.Marshal(VisionResult{ExtractedText: "texto", Confidence: 0.9})
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "usage")
}

func TestAmountsConsistent(t *testing.T) {
	inv := sampleInvoice()
	assert.True(t, inv.AmountsConsistent())

	inv.TotalAmount = 999.99
	assert.False(t, inv.AmountsConsistent())
}
