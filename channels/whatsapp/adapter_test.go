package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/facturamelo/channels"
)

func testAdapter() *WhatsAppAdapter {
	return NewWhatsAppAdapter(Config{
		AccessToken:        "test-token",
		PhoneNumberID:      "123456",
		WebhookVerifyToken: "verify-me",
		AppSecret:          "app-secret",
	})
}

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyToken(t *testing.T) {
	a := testAdapter()

	assert.True(t, a.VerifyToken("subscribe", "verify-me"))
	assert.False(t, a.VerifyToken("subscribe", "wrong"))
	assert.False(t, a.VerifyToken("unsubscribe", "verify-me"))
	assert.False(t, a.VerifyToken("", ""))
}

func TestVerifySignature(t *testing.T) {
	a := testAdapter()
	payload := []byte(`{"object":"whatsapp_business_account"}`)

	assert.NoError(t, a.VerifySignature(payload, sign("app-secret", payload)))
	assert.Error(t, a.VerifySignature(payload, sign("other-secret", payload)))
	assert.Error(t, a.VerifySignature(payload, ""))
	assert.Error(t, a.VerifySignature(payload, "sha256=deadbeef"))
}

func TestVerifySignatureSkippedWithoutSecret(t *testing.T) {
	a := NewWhatsAppAdapter(Config{
		AccessToken:        "t",
		PhoneNumberID:      "p",
		WebhookVerifyToken: "v",
	})

	assert.NoError(t, a.VerifySignature([]byte("anything"), ""))
}

const webhookPayload = `{
	"object": "whatsapp_business_account",
	"entry": [{
		"id": "ENTRY_ID",
		"changes": [{
			"field": "messages",
			"value": {
				"messaging_product": "whatsapp",
				"metadata": {"display_phone_number": "51111111111", "phone_number_id": "123456"},
				"contacts": [{"wa_id": "51987654321", "profile": {"name": "Ana"}}],
				"messages": [
					{
						"id": "wamid.text1",
						"from": "51987654321",
						"timestamp": "1718000000",
						"type": "text",
						"text": {"body": "hola"}
					},
					{
						"id": "wamid.img1",
						"from": "51987654321",
						"timestamp": "1718000100",
						"type": "image",
						"image": {"id": "media-99", "mime_type": "image/jpeg", "sha256": "abc", "caption": "factura"}
					}
				]
			}
		}]
	}]
}`

func TestParseWebhook(t *testing.T) {
	a := testAdapter()

	messages, err := a.ParseWebhook([]byte(webhookPayload))
	require.NoError(t, err)
	require.Len(t, messages, 2)

	text := messages[0]
	assert.Equal(t, "wamid.text1", text.MessageID.String())
	assert.Equal(t, "51987654321", text.From)
	assert.Equal(t, channels.MessageTypeText, text.Type)
	assert.Equal(t, "hola", text.Text)
	assert.Equal(t, int64(1718000000), text.Timestamp)
	assert.Nil(t, text.Media)

	img := messages[1]
	assert.Equal(t, channels.MessageTypeImage, img.Type)
	require.NotNil(t, img.Media)
	assert.Equal(t, "media-99", img.Media.ID)
	assert.Equal(t, "image/jpeg", img.Media.MimeType)
	assert.Equal(t, "factura", img.Media.Caption)
}

func TestParseWebhookStatusOnly(t *testing.T) {
	a := testAdapter()

	payload := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "ENTRY_ID",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"statuses": [{"id": "wamid.x", "status": "delivered", "timestamp": "1718000000", "recipient_id": "51987654321"}]
				}
			}]
		}]
	}`

	messages, err := a.ParseWebhook([]byte(payload))
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestParseWebhookInvalid(t *testing.T) {
	a := testAdapter()

	_, err := a.ParseWebhook([]byte("not json"))
	assert.Error(t, err)

	_, err = a.ParseWebhook([]byte(`{"entry": []}`))
	assert.Error(t, err)
}
