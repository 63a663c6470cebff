package invoicesrv

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/craftable/logx"
	"github.com/google/uuid"

	"github.com/Abraxas-365/facturamelo/channels"
	"github.com/Abraxas-365/facturamelo/invoice"
)

// Respuestas al usuario. El pipeline nunca deja escapar un error: toda falla
// interna se convierte en uno de estos mensajes.
const (
	ReplyInvoiceProcessed = "✅ Factura procesada correctamente\n📝 Número: %s\n💰 Total: %.2f %s\n🏢 Vendedor: %s"
	ReplyImageError       = "❌ Error al procesar la imagen. Por favor, asegúrate de enviar una imagen clara de una factura."
	ReplyStorageError     = "❌ Error al procesar la factura. Por favor, intenta nuevamente."
)

// visionTimeout límite por llamada al backend de visión
const visionTimeout = 30 * time.Second

// lowConfidenceThreshold por debajo de esto se registra una advertencia; no
// bloquea el pipeline
const lowConfidenceThreshold float32 = 0.5

// InvoicePipeline orquesta imagen → visión → extracción → almacenamiento y
// produce la respuesta para el usuario
type InvoicePipeline struct {
	fetcher   channels.MediaFetcher
	vision    invoice.VisionProvider
	extractor invoice.Extractor
	repo      invoice.Repository
	archiver  invoice.MediaArchiver // opcional, puede ser nil
}

var _ channels.Pipeline = (*InvoicePipeline)(nil)

// NewInvoicePipeline creates a new invoice processing pipeline. The archiver
// is optional: pass nil to skip source image archival.
func NewInvoicePipeline(
	fetcher channels.MediaFetcher,
	vision invoice.VisionProvider,
	extractor invoice.Extractor,
	repo invoice.Repository,
	archiver invoice.MediaArchiver,
) *InvoicePipeline {
	return &InvoicePipeline{
		fetcher:   fetcher,
		vision:    vision,
		extractor: extractor,
		repo:      repo,
		archiver:  archiver,
	}
}

// ProcessImage ejecuta el pipeline completo para un mensaje de imagen y
// retorna el texto de respuesta para el remitente
func (p *InvoicePipeline) ProcessImage(ctx context.Context, msg channels.IncomingMessage) string {
	runID := uuid.New().String()

	if msg.Media == nil || msg.Media.ID == "" {
		logx.Warn("Image message %s has no media reference (run %s)", msg.MessageID.String(), runID)
		return ReplyImageError
	}

	logx.Info("Invoice pipeline %s started for message %s, media %s", runID, msg.MessageID.String(), msg.Media.ID)

	imageData, contentType, err := p.fetcher.FetchMedia(ctx, msg.Media.ID)
	if err != nil {
		logx.Error("Error fetching media %s (run %s): %v", msg.Media.ID, runID, err)
		return ReplyImageError
	}

	p.archiveSource(ctx, runID, msg, imageData, contentType)

	visionCtx, cancel := context.WithTimeout(ctx, visionTimeout)
	defer cancel()

	visionResult, err := p.vision.ProcessImage(visionCtx, imageData)
	if err != nil {
		logx.Error("Error processing image with vision backend (run %s): %v", runID, err)
		return ReplyImageError
	}

	if visionResult.Confidence < lowConfidenceThreshold {
		logx.Warn("Low vision confidence %.2f from model %s (run %s)",
			visionResult.Confidence, visionResult.Model, runID)
	}

	inv, err := p.extractor.Extract(ctx, visionResult.ExtractedText)
	if err != nil {
		logx.Error("Error extracting invoice data (run %s): %v", runID, err)
		return ReplyImageError
	}

	if !inv.AmountsConsistent() {
		logx.Warn("Invoice %s amounts inconsistent: subtotal %.2f + tax %.2f != total %.2f (run %s)",
			inv.InvoiceNumber, inv.Subtotal(), inv.TaxAmount, inv.TotalAmount, runID)
	}

	invoiceID, err := p.repo.Save(ctx, *inv)
	if err != nil {
		logx.Error("Error storing invoice %s (run %s): %v", inv.InvoiceNumber, runID, err)
		return ReplyStorageError
	}

	logx.Info("Invoice pipeline %s completed: stored %s for %s, total %.2f",
		runID, invoiceID, inv.VendorName, inv.TotalAmount)

	return fmt.Sprintf(ReplyInvoiceProcessed, inv.InvoiceNumber, inv.TotalAmount, inv.Currency, inv.VendorName)
}

// archiveSource guarda la imagen original si hay archiver configurado. Una
// falla de archivado no interrumpe el pipeline.
func (p *InvoicePipeline) archiveSource(ctx context.Context, runID string, msg channels.IncomingMessage, data []byte, contentType string) {
	if p.archiver == nil {
		return
	}

	key := fmt.Sprintf("%s/%s", time.Now().UTC().Format("2006/01/02"), msg.Media.ID)
	location, err := p.archiver.Archive(ctx, key, data, contentType)
	if err != nil {
		logx.Warn("Error archiving media under %s (run %s): %v", key, runID, err)
		return
	}

	logx.Debug("Media archived at %s (run %s)", location, runID)
}

// ValidateProviders verifica al arranque que las credenciales de los backends
// externos estén vivas
func (p *InvoicePipeline) ValidateProviders(ctx context.Context) error {
	ok, err := p.vision.ValidateCredentials(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return invoice.ErrProviderAuthFailed()
	}
	return nil
}
