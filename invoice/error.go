package invoice

import (
	"net/http"

	"github.com/Abraxas-365/craftable/errx"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("INVOICE")

// ============================================================================
// Error Codes
// ============================================================================

var (
	// Pipeline errors
	CodeVisionFailed     = ErrRegistry.Register("VISION_FAILED", errx.TypeExternal, http.StatusBadGateway, "Procesamiento de imagen falló")
	CodeExtractionFailed = ErrRegistry.Register("EXTRACTION_FAILED", errx.TypeExternal, http.StatusBadGateway, "Extracción de datos de la factura falló")
	CodeStorageFailed    = ErrRegistry.Register("STORAGE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Almacenamiento de la factura falló")
	CodeMediaFetchFailed = ErrRegistry.Register("MEDIA_FETCH_FAILED", errx.TypeExternal, http.StatusBadGateway, "Descarga de la imagen falló")
	CodeArchiveFailed    = ErrRegistry.Register("ARCHIVE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Archivado de la imagen falló")

	// Record errors
	CodeInvoiceNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Factura no encontrada")
	CodeInvalidInvoice  = ErrRegistry.Register("INVALID_INVOICE", errx.TypeValidation, http.StatusBadRequest, "Factura inválida")
	CodeInvalidFilter   = ErrRegistry.Register("INVALID_FILTER", errx.TypeValidation, http.StatusBadRequest, "Filtro de búsqueda inválido")

	// Provider errors
	CodeProviderAuthFailed = ErrRegistry.Register("PROVIDER_AUTH_FAILED", errx.TypeExternal, http.StatusUnauthorized, "Autenticación con proveedor falló")
)

// ============================================================================
// Error Constructor Functions
// ============================================================================

func ErrVisionFailed() *errx.Error {
	return ErrRegistry.New(CodeVisionFailed)
}

func ErrExtractionFailed() *errx.Error {
	return ErrRegistry.New(CodeExtractionFailed)
}

func ErrStorageFailed() *errx.Error {
	return ErrRegistry.New(CodeStorageFailed)
}

func ErrMediaFetchFailed() *errx.Error {
	return ErrRegistry.New(CodeMediaFetchFailed)
}

func ErrArchiveFailed() *errx.Error {
	return ErrRegistry.New(CodeArchiveFailed)
}

func ErrInvoiceNotFound() *errx.Error {
	return ErrRegistry.New(CodeInvoiceNotFound)
}

func ErrInvalidInvoice() *errx.Error {
	return ErrRegistry.New(CodeInvalidInvoice)
}

func ErrInvalidFilter() *errx.Error {
	return ErrRegistry.New(CodeInvalidFilter)
}

func ErrProviderAuthFailed() *errx.Error {
	return ErrRegistry.New(CodeProviderAuthFailed)
}
