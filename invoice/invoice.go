package invoice

import (
	"math"
	"time"
)

// AmountTolerance es la diferencia absoluta permitida entre el total declarado
// y el subtotal calculado más impuestos.
const AmountTolerance = 0.01

// DefaultCurrency se usa cuando la factura no declara moneda.
const DefaultCurrency = "USD"

// InvoiceItem representa un ítem individual en una factura
type InvoiceItem struct {
	Description string  `json:"description" db:"description"`
	Quantity    float64 `json:"quantity" db:"quantity"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	Total       float64 `json:"total" db:"total"`
}

// Invoice representa una factura completa. Se construye en el extractor y es
// inmutable una vez entregada al repositorio; la clave de almacenamiento es
// InvoiceNumber (upsert, last-write-wins).
type Invoice struct {
	InvoiceNumber string        `json:"invoice_number"`
	Date          time.Time     `json:"date"`
	VendorName    string        `json:"vendor_name"`
	VendorTaxID   string        `json:"vendor_tax_id,omitempty"`
	TotalAmount   float64       `json:"total_amount"`
	TaxAmount     float64       `json:"tax_amount"`
	Items         []InvoiceItem `json:"items"`
	Currency      string        `json:"currency"`
}

// IsValid verifica los campos mínimos requeridos de una factura extraída
func (i *Invoice) IsValid() bool {
	return i.InvoiceNumber != "" && i.TotalAmount > 0
}

// Subtotal retorna la suma de los totales de los ítems
func (i *Invoice) Subtotal() float64 {
	var subtotal float64
	for _, item := range i.Items {
		subtotal += item.Total
	}
	return subtotal
}

// AmountsConsistent valida los montos de la factura contra su propio total
func (i *Invoice) AmountsConsistent() bool {
	return ValidateAmounts(i.Items, i.TotalAmount, i.TaxAmount)
}

// ValidateAmounts valida que los totales de los ítems más impuestos coincidan
// con el total declarado, dentro de la tolerancia de redondeo. Es una función
// pura: se puede usar de forma independiente para auditar facturas ya
// almacenadas.
func ValidateAmounts(items []InvoiceItem, totalAmount, taxAmount float64) bool {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Total
	}
	return math.Abs((subtotal+taxAmount)-totalAmount) < AmountTolerance
}
