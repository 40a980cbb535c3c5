package client

import (
	"log"

	"github.com/omochice/duplex-chat/internal/chat"
	"github.com/omochice/duplex-chat/internal/transport"
	"github.com/omochice/duplex-chat/pkg/protocol"
)

type clientOptions struct {
	transport transport.Kind
	channel   chat.ChannelOptions
	logger    *log.Logger
}

func defaultClientOptions() *clientOptions {
	return &clientOptions{
		transport: transport.KindTCP,
		channel:   chat.DefaultChannelOptions(),
		logger:    log.Default(),
	}
}

type Option func(*clientOptions)

// WithTransport selects raw TCP or WebSocket.
func WithTransport(kind transport.Kind) Option {
	return func(o *clientOptions) {
		o.transport = kind
	}
}

// WithCodec selects the payload codec. Both peers must use the same one.
func WithCodec(codec protocol.CodecType) Option {
	return func(o *clientOptions) {
		o.channel.Codec = codec
	}
}

// WithMaxMessageSize bounds message payloads in both directions.
func WithMaxMessageSize(n int) Option {
	return func(o *clientOptions) {
		o.channel.MaxMessageSize = n
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
