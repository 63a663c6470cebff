package channels

import (
	"strings"

	"github.com/Abraxas-365/facturamelo/pkg/kernel"
)

// ============================================================================
// Message DTOs
// ============================================================================

// MessageType tipo de mensaje entrante
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
)

// IncomingMessage mensaje entrante recibido del canal. Efímero: el core no lo
// persiste.
type IncomingMessage struct {
	MessageID kernel.MessageID `json:"message_id"`
	From      string           `json:"from"`
	Type      MessageType      `json:"type"`
	Text      string           `json:"text,omitempty"`
	Media     *MediaRef        `json:"media,omitempty"`
	Timestamp int64            `json:"timestamp"`
	Metadata  map[string]any   `json:"metadata,omitempty"`
}

// MediaRef referencia opaca a un adjunto del proveedor; se resuelve a bytes
// con MediaFetcher
type MediaRef struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type,omitempty"`
	SHA256   string `json:"sha256,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// NormalizePhoneNumber asegura formato E.164 anteponiendo "+" si falta
func NormalizePhoneNumber(number string) string {
	if number == "" || strings.HasPrefix(number, "+") {
		return number
	}
	return "+" + number
}
