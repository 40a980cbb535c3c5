package chat

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/omochice/duplex-chat/internal/transport"
	"github.com/omochice/duplex-chat/pkg/protocol"
)

// ErrChannelClosed is returned by SendMessage after Close.
var ErrChannelClosed = errors.New("channel closed")

// ChannelOptions configures the framing on a connection.
type ChannelOptions struct {
	Codec          protocol.CodecType
	MaxMessageSize int
}

// DefaultChannelOptions returns raw UTF-8 payloads with the default size
// limit.
func DefaultChannelOptions() ChannelOptions {
	return ChannelOptions{
		Codec:          protocol.CodecRaw,
		MaxMessageSize: protocol.DefaultMaxMessageSize,
	}
}

// Channel gives message-atomic I/O over a transport.Conn.
//
// The read half and the write half are independent: one goroutine may sit
// in ReceiveMessage while another calls SendMessage.
type Channel struct {
	conn   transport.Conn
	reader *protocol.Reader
	writer *protocol.Writer
	closed atomic.Bool
}

// NewChannel opens a Channel on conn.
func NewChannel(conn transport.Conn, opts ChannelOptions) *Channel {
	codec := protocol.NewCodec(opts.Codec)
	return &Channel{
		conn:   conn,
		reader: protocol.NewReader(conn, codec, opts.MaxMessageSize),
		writer: protocol.NewWriter(conn, codec, opts.MaxMessageSize),
	}
}

// SendMessage writes one message. Errors wrap protocol.ErrWrite and are
// terminal for the connection.
func (c *Channel) SendMessage(text string) error {
	if c.closed.Load() {
		return fmt.Errorf("%w: %w", protocol.ErrWrite, ErrChannelClosed)
	}
	return c.writer.WriteMessage(text)
}

// ReceiveMessage blocks for one complete message. Errors wrap
// protocol.ErrRead and are terminal for the connection.
func (c *Channel) ReceiveMessage() (string, error) {
	return c.reader.ReadMessage()
}

// Close marks the channel closed. It does not close the connection; the
// owner releases that separately. Close reports whether this call was the
// one that closed it.
func (c *Channel) Close() bool {
	return c.closed.CompareAndSwap(false, true)
}

// Closed reports whether Close has been called.
func (c *Channel) Closed() bool {
	return c.closed.Load()
}

// RemoteAddr returns the peer address.
func (c *Channel) RemoteAddr() string {
	return c.conn.RemoteAddr()
}
