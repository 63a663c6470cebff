package channels

import (
	"net/http"

	"github.com/Abraxas-365/craftable/errx"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("CHANNEL")

// ============================================================================
// Error Codes
// ============================================================================

var (
	// Webhook errors
	CodeInvalidWebhookPayload   = ErrRegistry.Register("INVALID_WEBHOOK_PAYLOAD", errx.TypeBadRequest, http.StatusBadRequest, "Payload de webhook inválido")
	CodeInvalidWebhookSignature = ErrRegistry.Register("INVALID_WEBHOOK_SIGNATURE", errx.TypeValidation, http.StatusUnauthorized, "Firma de webhook inválida")
	CodeVerificationFailed      = ErrRegistry.Register("VERIFICATION_FAILED", errx.TypeAuthorization, http.StatusForbidden, "Verificación de webhook falló")

	// Message sending errors
	CodeMessageSendFailed = ErrRegistry.Register("MESSAGE_SEND_FAILED", errx.TypeExternal, http.StatusBadGateway, "Envío de mensaje falló")
	CodeInvalidRecipient  = ErrRegistry.Register("INVALID_RECIPIENT", errx.TypeValidation, http.StatusBadRequest, "Destinatario inválido")

	// Media errors
	CodeMediaNotFound    = ErrRegistry.Register("MEDIA_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Adjunto no encontrado")
	CodeMediaFetchFailed = ErrRegistry.Register("MEDIA_FETCH_FAILED", errx.TypeExternal, http.StatusBadGateway, "Descarga de adjunto falló")

	// Provider errors
	CodeProviderAPIError = ErrRegistry.Register("PROVIDER_API_ERROR", errx.TypeExternal, http.StatusBadGateway, "Error en API del proveedor")
)

// ============================================================================
// Error Constructor Functions
// ============================================================================

func ErrInvalidWebhookPayload() *errx.Error {
	return ErrRegistry.New(CodeInvalidWebhookPayload)
}

func ErrInvalidWebhookSignature() *errx.Error {
	return ErrRegistry.New(CodeInvalidWebhookSignature)
}

func ErrVerificationFailed() *errx.Error {
	return ErrRegistry.New(CodeVerificationFailed)
}

func ErrMessageSendFailed() *errx.Error {
	return ErrRegistry.New(CodeMessageSendFailed)
}

func ErrInvalidRecipient() *errx.Error {
	return ErrRegistry.New(CodeInvalidRecipient)
}

func ErrMediaNotFound() *errx.Error {
	return ErrRegistry.New(CodeMediaNotFound)
}

func ErrMediaFetchFailed() *errx.Error {
	return ErrRegistry.New(CodeMediaFetchFailed)
}

func ErrProviderAPIError() *errx.Error {
	return ErrRegistry.New(CodeProviderAPIError)
}
