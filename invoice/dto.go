package invoice

import "time"

// ============================================================================
// Pipeline DTOs
// ============================================================================

// VisionResult resultado del procesamiento de visión. Transitorio: lo produce
// el VisionProvider y lo consume el extractor, nunca se persiste.
type VisionResult struct {
	ExtractedText string  `json:"extracted_text"`
	Confidence    float32 `json:"confidence"`
	Provider      string  `json:"provider"`
	Model         string  `json:"model"`
	Usage         Usage   `json:"usage"`
}

// Usage estadísticas de uso del backend de visión
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// StorageResult resultado de la operación de almacenamiento
type StorageResult struct {
	InvoiceID string `json:"invoice_id"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
}

// ============================================================================
// Query DTOs
// ============================================================================

// ListFilter filtros opcionales y conjuntivos (AND) para listar facturas.
// VendorName se compara de forma exacta sin distinguir mayúsculas; las fechas
// son límites inclusivos.
type ListFilter struct {
	VendorName string     `json:"vendor_name,omitempty"`
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`
}

// IsEmpty indica si no hay ningún filtro activo
func (f ListFilter) IsEmpty() bool {
	return f.VendorName == "" && f.DateFrom == nil && f.DateTo == nil
}
