package invoiceengines

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Abraxas-365/craftable/ai/ocr"
	"github.com/Abraxas-365/craftable/logx"
	"github.com/Abraxas-365/facturamelo/invoice"
)

const openAIModelsURL = "https://api.openai.com/v1/models"

// OpenAIVisionEngine implementa invoice.VisionProvider sobre el cliente OCR.
// Extrae el texto de la imagen con un modelo de visión de OpenAI.
type OpenAIVisionEngine struct {
	client     *ocr.Client
	apiKey     string
	model      string
	httpClient *http.Client
}

var _ invoice.VisionProvider = (*OpenAIVisionEngine)(nil)

// NewOpenAIVisionEngine creates a vision engine backed by an OCR client
func NewOpenAIVisionEngine(client *ocr.Client, apiKey, model string) *OpenAIVisionEngine {
	if model == "" {
		model = ocr.DefaultOptions().Model
	}

	return &OpenAIVisionEngine{
		client:     client,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ProcessImage extrae el texto de una imagen de factura
func (e *OpenAIVisionEngine) ProcessImage(ctx context.Context, imageData []byte) (invoice.VisionResult, error) {
	if len(imageData) == 0 {
		return invoice.VisionResult{}, invoice.ErrVisionFailed().WithDetail("reason", "empty image data")
	}

	result, err := e.client.ExtractText(ctx, imageData,
		ocr.WithModel(e.model),
		ocr.WithLanguage("auto"),
		ocr.WithDetailsLevel("medium"),
	)
	if err != nil {
		logx.Error("Error extracting text with model %s: %v", e.model, err)
		return invoice.VisionResult{}, invoice.ErrVisionFailed().WithCause(err)
	}

	if result.Text == "" {
		return invoice.VisionResult{}, invoice.ErrVisionFailed().WithDetail("reason", "no text extracted from image")
	}

	logx.Debug("Vision extraction completed with model %s: confidence %.2f, %d tokens",
		e.model, result.Confidence, result.Usage.TotalTokens)

	return invoice.VisionResult{
		ExtractedText: result.Text,
		Confidence:    result.Confidence,
		Provider:      "openai",
		Model:         e.model,
		Usage: invoice.Usage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
		},
	}, nil
}

// ValidateCredentials verifica la API key contra el endpoint de modelos, sin
// consumir tokens de visión
func (e *OpenAIVisionEngine) ValidateCredentials(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", openAIModelsURL, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return false, invoice.ErrProviderAuthFailed().WithCause(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, invoice.ErrProviderAuthFailed().WithDetail("status", resp.StatusCode)
	default:
		return false, invoice.ErrProviderAuthFailed().
			WithDetail("status", resp.StatusCode).
			WithDetail("reason", "unexpected response from provider")
	}
}
