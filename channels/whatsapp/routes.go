package whatsapp

import (
	"github.com/gofiber/fiber/v2"
)

// WebhookRoutes handles WhatsApp webhook route setup
type WebhookRoutes struct {
	handler *WebhookHandler
}

// NewWebhookRoutes creates a new webhook routes instance
func NewWebhookRoutes(handler *WebhookHandler) *WebhookRoutes {
	return &WebhookRoutes{handler: handler}
}

// RegisterRoutes configures WhatsApp webhook routes
func (wr *WebhookRoutes) RegisterRoutes(app *fiber.App) {
	webhooks := app.Group("/webhooks/whatsapp")

	// Verification endpoint (GET)
	webhooks.Get("/", wr.handler.VerifyWebhook)

	// Receiving endpoint (POST)
	webhooks.Post("/", wr.handler.ReceiveWebhook)
}
