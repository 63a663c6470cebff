package channelsrv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/facturamelo/channels"
	"github.com/Abraxas-365/facturamelo/pkg/kernel"
)

type fakeSender struct {
	sentTo   []string
	sentBody []string
	err      error
}

func (s *fakeSender) SendText(_ context.Context, to, body string) error {
	s.sentTo = append(s.sentTo, to)
	s.sentBody = append(s.sentBody, body)
	return s.err
}

type fakePipeline struct {
	reply  string
	called int
}

func (p *fakePipeline) ProcessImage(_ context.Context, _ channels.IncomingMessage) string {
	p.called++
	return p.reply
}

func textMessage() channels.IncomingMessage {
	return channels.IncomingMessage{
		MessageID: kernel.NewMessageID("wamid.1"),
		From:      "51987654321",
		Type:      channels.MessageTypeText,
		Text:      "hola",
	}
}

func TestRouteTextMessage(t *testing.T) {
	sender := &fakeSender{}
	pipeline := &fakePipeline{}
	router := NewMessageRouter(sender, pipeline)

	err := router.Route(context.Background(), textMessage())
	require.NoError(t, err)

	require.Len(t, sender.sentBody, 1)
	assert.Equal(t, ReplyTextReceived, sender.sentBody[0])
	assert.Zero(t, pipeline.called)
}

func TestRouteNormalizesRecipient(t *testing.T) {
	sender := &fakeSender{}
	router := NewMessageRouter(sender, &fakePipeline{})

	err := router.Route(context.Background(), textMessage())
	require.NoError(t, err)

	require.Len(t, sender.sentTo, 1)
	assert.Equal(t, "+51987654321", sender.sentTo[0])
}

func TestRouteImageMessage(t *testing.T) {
	sender := &fakeSender{}
	pipeline := &fakePipeline{reply: "✅ listo"}
	router := NewMessageRouter(sender, pipeline)

	msg := textMessage()
	msg.Type = channels.MessageTypeImage
	msg.Media = &channels.MediaRef{ID: "media-1"}

	err := router.Route(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, 1, pipeline.called)
	require.Len(t, sender.sentBody, 1)
	assert.Equal(t, "✅ listo", sender.sentBody[0])
}

func TestRouteUnsupportedType(t *testing.T) {
	sender := &fakeSender{}
	pipeline := &fakePipeline{}
	router := NewMessageRouter(sender, pipeline)

	msg := textMessage()
	msg.Type = "audio"

	err := router.Route(context.Background(), msg)
	require.NoError(t, err)

	require.Len(t, sender.sentBody, 1)
	assert.Equal(t, ReplyUnsupportedMessage, sender.sentBody[0])
	assert.Zero(t, pipeline.called)
}

func TestRouteSenderErrorNotPropagated(t *testing.T) {
	sender := &fakeSender{err: errors.New("network down")}
	router := NewMessageRouter(sender, &fakePipeline{})

	err := router.Route(context.Background(), textMessage())
	assert.NoError(t, err)
}

func TestRouteDropsMessageWithoutSender(t *testing.T) {
	sender := &fakeSender{}
	router := NewMessageRouter(sender, &fakePipeline{})

	msg := textMessage()
	msg.From = ""

	err := router.Route(context.Background(), msg)
	require.NoError(t, err)
	assert.Empty(t, sender.sentBody)
}
