package channels

import "context"

// ============================================================================
// Adapter Interfaces
// ============================================================================

// Sender envía mensajes de texto salientes por el canal
type Sender interface {
	SendText(ctx context.Context, to string, body string) error
}

// MediaFetcher resuelve una referencia de adjunto del proveedor a bytes
type MediaFetcher interface {
	// FetchMedia retorna los bytes de la imagen y su content type
	FetchMedia(ctx context.Context, mediaID string) ([]byte, string, error)
}

// Deduper absorbe reintentos de entrega del proveedor
type Deduper interface {
	// Seen marca el mensaje como visto; retorna true si ya había sido
	// procesado antes
	Seen(ctx context.Context, messageID string) (bool, error)
}

// ============================================================================
// Router Interfaces
// ============================================================================

// Pipeline procesa un mensaje de imagen y retorna el texto de respuesta para
// el usuario. Las fallas internas se convierten en mensajes amigables, nunca
// escapan como error.
type Pipeline interface {
	ProcessImage(ctx context.Context, msg IncomingMessage) string
}

// MessageRouter clasifica mensajes entrantes y los despacha
type MessageRouter interface {
	Route(ctx context.Context, msg IncomingMessage) error
}
