package invoice

import "context"

// ============================================================================
// Provider Interfaces
// ============================================================================

// VisionProvider define el contrato para backends de extracción de texto a
// partir de imágenes. Una falla del backend (error de red, timeout, status no
// exitoso) se reporta siempre como *errx.Error con código ErrVisionFailed;
// nunca se retorna un resultado degradado.
type VisionProvider interface {
	// ProcessImage extrae el texto de una imagen de factura
	ProcessImage(ctx context.Context, imageData []byte) (VisionResult, error)

	// ValidateCredentials verifica que la credencial configurada esté viva,
	// sin ejecutar una extracción real
	ValidateCredentials(ctx context.Context) (bool, error)
}

// Extractor convierte texto libre en una factura estructurada. Si el texto no
// se puede interpretar o faltan campos requeridos, falla con
// ErrExtractionFailed en lugar de retornar un registro parcialmente poblado.
type Extractor interface {
	Extract(ctx context.Context, rawText string) (*Invoice, error)
}

// Repository define el contrato para persistencia de facturas. Cada operación
// es atómica contra el backend; no hay transacciones entre registros y dos
// escrituras concurrentes con el mismo número resuelven last-write-wins.
type Repository interface {
	// Save inserta o reemplaza por número de factura y retorna la clave usada
	Save(ctx context.Context, inv Invoice) (string, error)

	// FindByNumber busca por clave exacta; ErrInvoiceNotFound si no existe
	FindByNumber(ctx context.Context, number string) (*Invoice, error)

	// List retorna las facturas que cumplen todos los filtros activos
	List(ctx context.Context, filter ListFilter) ([]Invoice, error)

	// Delete elimina por número; retorna true solo si el registro existía
	Delete(ctx context.Context, number string) (bool, error)
}

// MediaArchiver guarda una copia de auditoría de la imagen original. Es una
// capacidad opcional del pipeline: si no está configurada, la imagen es
// efímera.
type MediaArchiver interface {
	// Archive guarda los bytes bajo la clave dada y retorna la ubicación
	Archive(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
