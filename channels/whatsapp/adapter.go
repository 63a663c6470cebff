package whatsapp

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/craftable/logx"
	"github.com/Abraxas-365/facturamelo/channels"
	"github.com/Abraxas-365/facturamelo/pkg/kernel"
)

const (
	whatsappAPIBaseURL = "https://graph.facebook.com"
	defaultAPIVersion  = "v24.0"
)

// Config configuración del canal WhatsApp Business
type Config struct {
	AccessToken        string
	PhoneNumberID      string
	WebhookVerifyToken string
	AppSecret          string
	APIVersion         string
}

// Validate valida la configuración del canal
func (c Config) Validate() error {
	if c.AccessToken == "" {
		return fmt.Errorf("WHATSAPP_TOKEN is required")
	}
	if c.PhoneNumberID == "" {
		return fmt.Errorf("WHATSAPP_PHONE_NUMBER_ID is required")
	}
	if c.WebhookVerifyToken == "" {
		return fmt.Errorf("WHATSAPP_VERIFY_TOKEN_WEBHOOK is required")
	}
	return nil
}

// WhatsAppAdapter implementa Sender y MediaFetcher contra la WhatsApp Business API
type WhatsAppAdapter struct {
	config     Config
	httpClient *http.Client
	apiURL     string
}

var (
	_ channels.Sender       = (*WhatsAppAdapter)(nil)
	_ channels.MediaFetcher = (*WhatsAppAdapter)(nil)
)

// NewWhatsAppAdapter creates a new WhatsApp adapter
func NewWhatsAppAdapter(config Config) *WhatsAppAdapter {
	apiVersion := config.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}

	return &WhatsAppAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     fmt.Sprintf("%s/%s/%s", whatsappAPIBaseURL, apiVersion, config.PhoneNumberID),
	}
}

// SendText sends a text message via WhatsApp
func (a *WhatsAppAdapter) SendText(ctx context.Context, to string, body string) error {
	if to == "" {
		return channels.ErrInvalidRecipient()
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "text",
		"text": map[string]any{
			"body": body,
		},
	}

	url := fmt.Sprintf("%s/messages", a.apiURL)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+a.config.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return channels.ErrMessageSendFailed().WithCause(err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		logx.Error("WhatsApp API error (status %d): %s", resp.StatusCode, string(respBody))
		return channels.ErrMessageSendFailed().
			WithDetail("status", resp.StatusCode).
			WithDetail("response", string(respBody))
	}

	logx.Debug("WhatsApp message sent to %s", to)
	return nil
}

// FetchMedia resolves a WhatsApp media ID to raw bytes. The Graph API needs
// two round trips: one to get the download URL, one to get the bytes.
func (a *WhatsAppAdapter) FetchMedia(ctx context.Context, mediaID string) ([]byte, string, error) {
	apiVersion := a.config.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}

	metaURL := fmt.Sprintf("%s/%s/%s", whatsappAPIBaseURL, apiVersion, mediaID)

	req, err := http.NewRequestWithContext(ctx, "GET", metaURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.AccessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, "", channels.ErrMediaFetchFailed().WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", channels.ErrMediaNotFound().WithDetail("media_id", mediaID)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", channels.ErrMediaFetchFailed().
			WithDetail("status", resp.StatusCode).
			WithDetail("response", string(body))
	}

	var meta struct {
		URL      string `json:"url"`
		MimeType string `json:"mime_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, "", channels.ErrMediaFetchFailed().WithCause(err)
	}
	if meta.URL == "" {
		return nil, "", channels.ErrMediaFetchFailed().WithDetail("reason", "empty media url")
	}

	// Second round trip: the download URL also requires the bearer token
	dlReq, err := http.NewRequestWithContext(ctx, "GET", meta.URL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	dlReq.Header.Set("Authorization", "Bearer "+a.config.AccessToken)

	dlResp, err := a.httpClient.Do(dlReq)
	if err != nil {
		return nil, "", channels.ErrMediaFetchFailed().WithCause(err)
	}
	defer dlResp.Body.Close()

	if dlResp.StatusCode != http.StatusOK {
		return nil, "", channels.ErrMediaFetchFailed().WithDetail("status", dlResp.StatusCode)
	}

	data, err := io.ReadAll(dlResp.Body)
	if err != nil {
		return nil, "", channels.ErrMediaFetchFailed().WithCause(err)
	}

	return data, meta.MimeType, nil
}

// VerifySignature verifies the X-Hub-Signature-256 header against the payload
func (a *WhatsAppAdapter) VerifySignature(payload []byte, signature string) error {
	if a.config.AppSecret == "" {
		return nil // Skip verification if no secret configured
	}

	if signature == "" {
		return channels.ErrInvalidWebhookSignature()
	}

	signature = strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(a.config.AppSecret))
	mac.Write(payload)
	expectedSignature := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expectedSignature)) {
		return channels.ErrInvalidWebhookSignature()
	}

	return nil
}

// VerifyToken checks the webhook verification handshake parameters
func (a *WhatsAppAdapter) VerifyToken(mode, token string) bool {
	return mode == "subscribe" && token == a.config.WebhookVerifyToken
}

// ParseWebhook extracts the incoming messages from a webhook payload. Payloads
// without messages (status updates) yield an empty slice, not an error.
func (a *WhatsAppAdapter) ParseWebhook(payload []byte) ([]channels.IncomingMessage, error) {
	var webhook WhatsAppWebhook
	if err := json.Unmarshal(payload, &webhook); err != nil {
		return nil, channels.ErrInvalidWebhookPayload().WithCause(err)
	}

	if webhook.Object == "" {
		return nil, channels.ErrInvalidWebhookPayload().WithDetail("reason", "missing object field")
	}

	var messages []channels.IncomingMessage
	for _, entry := range webhook.Entry {
		for _, change := range entry.Changes {
			if change.Value.MessagingProduct != "whatsapp" {
				continue
			}

			for _, msg := range change.Value.Messages {
				messages = append(messages, a.convertMessage(msg))
			}
		}
	}

	return messages, nil
}

// convertMessage converts a webhook message into the channel-agnostic DTO
func (a *WhatsAppAdapter) convertMessage(msg WebhookMessage) channels.IncomingMessage {
	incoming := channels.IncomingMessage{
		MessageID: kernel.NewMessageID(msg.ID),
		From:      msg.From,
		Type:      channels.MessageType(msg.Type),
		Timestamp: msg.Timestamp,
		Metadata: map[string]any{
			"whatsapp_message_id": msg.ID,
		},
	}

	if msg.Text != nil {
		incoming.Text = msg.Text.Body
	}

	var media *WebhookMedia
	switch msg.Type {
	case "image":
		media = msg.Image
	case "document":
		media = msg.Document
	case "audio":
		media = msg.Audio
	case "video":
		media = msg.Video
	}
	if media != nil {
		incoming.Media = &channels.MediaRef{
			ID:       media.ID,
			MimeType: media.MimeType,
			SHA256:   media.SHA256,
			Caption:  media.Caption,
		}
	}

	return incoming
}

// ============================================================================
// WhatsApp webhook structures
// ============================================================================

type WhatsAppWebhook struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Value WebhookValue `json:"value"`
	Field string       `json:"field"`
}

type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         WebhookMetadata  `json:"metadata"`
	Contacts         []WebhookContact `json:"contacts"`
	Messages         []WebhookMessage `json:"messages"`
	Statuses         []WebhookStatus  `json:"statuses"`
}

type WebhookMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type WebhookContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type WebhookMessage struct {
	ID        string        `json:"id"`
	From      string        `json:"from"`
	Timestamp int64         `json:"timestamp,string"`
	Type      string        `json:"type"`
	Text      *WebhookText  `json:"text,omitempty"`
	Image     *WebhookMedia `json:"image,omitempty"`
	Document  *WebhookMedia `json:"document,omitempty"`
	Audio     *WebhookMedia `json:"audio,omitempty"`
	Video     *WebhookMedia `json:"video,omitempty"`
}

type WebhookText struct {
	Body string `json:"body"`
}

type WebhookMedia struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256"`
	Caption  string `json:"caption,omitempty"`
}

type WebhookStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   int64  `json:"timestamp,string"`
	RecipientID string `json:"recipient_id"`
}
