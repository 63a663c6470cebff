package whatsapp

import (
	"net/http"

	"github.com/Abraxas-365/craftable/logx"
	"github.com/gofiber/fiber/v2"

	"github.com/Abraxas-365/facturamelo/channels"
)

// WebhookHandler handles WhatsApp webhook operations
type WebhookHandler struct {
	adapter *WhatsAppAdapter
	deduper channels.Deduper
	router  channels.MessageRouter
}

// NewWebhookHandler creates a new WhatsApp webhook handler
func NewWebhookHandler(
	adapter *WhatsAppAdapter,
	deduper channels.Deduper,
	router channels.MessageRouter,
) *WebhookHandler {
	return &WebhookHandler{
		adapter: adapter,
		deduper: deduper,
		router:  router,
	}
}

// VerifyWebhook handles Meta's webhook verification challenge
// GET /webhooks/whatsapp
func (h *WebhookHandler) VerifyWebhook(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if h.adapter.VerifyToken(mode, token) {
		logx.Info("Webhook verified successfully")
		return c.SendString(challenge)
	}

	logx.Warn("Webhook verification failed (mode %q)", mode)
	return fiber.NewError(http.StatusForbidden, "Verification failed")
}

// ReceiveWebhook handles incoming WhatsApp webhook notifications
// POST /webhooks/whatsapp
func (h *WebhookHandler) ReceiveWebhook(c *fiber.Ctx) error {
	body := c.Body()

	if err := h.adapter.VerifySignature(body, c.Get("X-Hub-Signature-256")); err != nil {
		logx.Warn("Webhook signature verification failed")
		return err
	}

	messages, err := h.adapter.ParseWebhook(body)
	if err != nil {
		logx.Warn("Invalid webhook payload: %v", err)
		return err
	}

	ctx := c.Context()

	for _, msg := range messages {
		seen, err := h.deduper.Seen(ctx, msg.MessageID.String())
		if err != nil {
			// Redis down: process anyway, a duplicate reply beats a lost invoice
			logx.Warn("Dedup check failed for message %s, processing anyway: %v", msg.MessageID.String(), err)
		} else if seen {
			logx.Info("Duplicate message %s skipped", msg.MessageID.String())
			continue
		}

		if err := h.router.Route(ctx, msg); err != nil {
			logx.Error("Error routing message %s: %v", msg.MessageID.String(), err)
		}
	}

	// Always acknowledge after routing so Meta stops retrying
	return c.SendStatus(http.StatusOK)
}
