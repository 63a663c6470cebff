package invoiceengines

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Abraxas-365/craftable/ai/llm"
	"github.com/Abraxas-365/craftable/logx"
	"github.com/Abraxas-365/facturamelo/invoice"
)

const extractionSystemPrompt = `Eres un agente especializado en extraer información estructurada de texto de facturas. ` +
	`Tu objetivo es analizar el texto proporcionado y convertirlo en un objeto JSON válido. ` +
	`Debes ser preciso en la extracción de números, fechas y montos. ` +
	`Responde únicamente con un objeto JSON con esta estructura:
{
  "invoice_number": "string",
  "date": "YYYY-MM-DD",
  "vendor_name": "string",
  "vendor_tax_id": "string o null",
  "total_amount": number,
  "tax_amount": number,
  "currency": "string (código ISO, ej. USD, PEN)",
  "items": [
    {"description": "string", "quantity": number, "unit_price": number, "total": number}
  ]
}
Si un campo opcional no aparece en el texto, usa null. No inventes datos.`

// dateLayouts formatos de fecha aceptados en la respuesta del modelo
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	"02-01-2006",
}

// LLMExtractor implementa invoice.Extractor con un modelo de lenguaje en modo
// JSON. El texto libre de la factura entra, una factura estructurada sale.
type LLMExtractor struct {
	client *llm.Client
	model  string
}

var _ invoice.Extractor = (*LLMExtractor)(nil)

// NewLLMExtractor creates a new LLM-backed invoice extractor
func NewLLMExtractor(client *llm.Client, model string) *LLMExtractor {
	if model == "" {
		model = "gpt-4o"
	}

	return &LLMExtractor{
		client: client,
		model:  model,
	}
}

// extractedInvoice estructura intermedia: la fecha llega como string y los
// campos opcionales pueden venir en null
type extractedInvoice struct {
	InvoiceNumber string          `json:"invoice_number"`
	Date          string          `json:"date"`
	VendorName    string          `json:"vendor_name"`
	VendorTaxID   *string         `json:"vendor_tax_id"`
	TotalAmount   float64         `json:"total_amount"`
	TaxAmount     *float64        `json:"tax_amount"`
	Currency      *string         `json:"currency"`
	Items         []extractedItem `json:"items"`
}

type extractedItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// Extract convierte el texto libre de una factura en un registro estructurado
func (e *LLMExtractor) Extract(ctx context.Context, rawText string) (*invoice.Invoice, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, invoice.ErrExtractionFailed().WithDetail("reason", "empty input text")
	}

	response, err := e.client.Chat(
		ctx,
		[]llm.Message{
			llm.NewSystemMessage(extractionSystemPrompt),
			llm.NewUserMessage(rawText),
		},
		llm.WithModel(e.model),
		llm.WithTemperature(0),
		llm.WithJSONMode(),
	)
	if err != nil {
		logx.Error("Error calling extraction model %s: %v", e.model, err)
		return nil, invoice.ErrExtractionFailed().WithCause(err)
	}

	content := stripCodeFences(response.Message.Content)

	var extracted extractedInvoice
	if err := json.Unmarshal([]byte(content), &extracted); err != nil {
		return nil, invoice.ErrExtractionFailed().
			WithDetail("reason", "model response is not valid JSON").
			WithCause(err)
	}

	return e.toInvoice(extracted)
}

// toInvoice aplica defaults y valida los campos requeridos
func (e *LLMExtractor) toInvoice(extracted extractedInvoice) (*invoice.Invoice, error) {
	if extracted.InvoiceNumber == "" {
		return nil, invoice.ErrExtractionFailed().WithDetail("missing_field", "invoice_number")
	}
	if extracted.VendorName == "" {
		return nil, invoice.ErrExtractionFailed().WithDetail("missing_field", "vendor_name")
	}
	if extracted.TotalAmount <= 0 {
		return nil, invoice.ErrExtractionFailed().WithDetail("missing_field", "total_amount")
	}

	date, err := parseDate(extracted.Date)
	if err != nil {
		return nil, invoice.ErrExtractionFailed().
			WithDetail("missing_field", "date").
			WithCause(err)
	}

	inv := &invoice.Invoice{
		InvoiceNumber: extracted.InvoiceNumber,
		Date:          date,
		VendorName:    extracted.VendorName,
		TotalAmount:   extracted.TotalAmount,
		Currency:      invoice.DefaultCurrency,
		Items:         make([]invoice.InvoiceItem, 0, len(extracted.Items)),
	}

	if extracted.VendorTaxID != nil {
		inv.VendorTaxID = *extracted.VendorTaxID
	}
	if extracted.TaxAmount != nil {
		inv.TaxAmount = *extracted.TaxAmount
	}
	if extracted.Currency != nil && *extracted.Currency != "" {
		inv.Currency = strings.ToUpper(*extracted.Currency)
	}

	for _, item := range extracted.Items {
		inv.Items = append(inv.Items, invoice.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
	}

	return inv, nil
}

// parseDate intenta cada layout conocido en orden
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, invoice.ErrExtractionFailed().WithDetail("reason", "empty date")
	}

	var lastErr error
	for _, layout := range dateLayouts {
		date, err := time.Parse(layout, value)
		if err == nil {
			return date, nil
		}
		lastErr = err
	}

	return time.Time{}, lastErr
}

// stripCodeFences removes markdown code fences some models wrap JSON in
func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	return content
}
