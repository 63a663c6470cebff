package channelsrv

import (
	"context"

	"github.com/Abraxas-365/craftable/logx"

	"github.com/Abraxas-365/facturamelo/channels"
)

// Respuestas fijas del router
const (
	ReplyTextReceived       = "Recibí tu mensaje. Por favor, envía una imagen de una factura para procesarla."
	ReplyUnsupportedMessage = "❌ Tipo de mensaje no soportado. Por favor, envía una imagen de una factura."
)

// MessageRouter clasifica los mensajes entrantes por tipo y los despacha. Las
// fallas al enviar la respuesta se registran pero no se propagan: el webhook
// siempre confirma la entrega.
type MessageRouter struct {
	sender   channels.Sender
	pipeline channels.Pipeline
}

var _ channels.MessageRouter = (*MessageRouter)(nil)

// NewMessageRouter creates a new message router
func NewMessageRouter(sender channels.Sender, pipeline channels.Pipeline) *MessageRouter {
	return &MessageRouter{
		sender:   sender,
		pipeline: pipeline,
	}
}

// Route procesa un mensaje entrante y envía la respuesta correspondiente
func (r *MessageRouter) Route(ctx context.Context, msg channels.IncomingMessage) error {
	to := channels.NormalizePhoneNumber(msg.From)
	if to == "" {
		logx.Warn("Dropping message %s without sender", msg.MessageID.String())
		return nil
	}

	var reply string

	switch msg.Type {
	case channels.MessageTypeImage:
		reply = r.pipeline.ProcessImage(ctx, msg)
	case channels.MessageTypeText:
		logx.Info("Text message %s received from %s", msg.MessageID.String(), to)
		reply = ReplyTextReceived
	default:
		logx.Info("Unsupported message type %q for message %s", string(msg.Type), msg.MessageID.String())
		reply = ReplyUnsupportedMessage
	}

	if err := r.sender.SendText(ctx, to, reply); err != nil {
		logx.Error("Error sending reply to %s for message %s: %v", to, msg.MessageID.String(), err)
	}

	return nil
}
