// Package client runs the dialing endpoint of a chat.
package client

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"

	"github.com/omochice/duplex-chat/internal/chat"
	"github.com/omochice/duplex-chat/internal/transport"
	"github.com/omochice/duplex-chat/internal/transport/tcp"
	"github.com/omochice/duplex-chat/internal/transport/ws"
)

// ErrNotConnected is returned by Send before Connect succeeds.
var ErrNotConnected = errors.New("not connected to server")

// Display is what the client prints to the operator.
type Display interface {
	chat.Display
	Printf(format string, a ...any)
}

// Client represents the dialing chat endpoint
type Client struct {
	address string
	opts    *clientOptions
	display Display

	mu      sync.RWMutex
	session *chat.Session
}

// New creates a new Client instance
func New(address string, display Display, opts ...Option) *Client {
	o := defaultClientOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Client{
		address: address,
		opts:    o,
		display: display,
	}
}

// Connect dials the server and starts the receive loop. Errors wrap
// transport.ErrConnect and are not retried.
func (c *Client) Connect(ctx context.Context) error {
	var (
		conn transport.Conn
		err  error
	)
	switch c.opts.transport {
	case transport.KindWebSocket:
		conn, err = ws.Dial(ctx, c.address)
	default:
		conn, err = tcp.Dial(ctx, c.address)
	}
	if err != nil {
		return err
	}

	c.display.Printf("Connected to: %s\n", conn.RemoteAddr())

	session := chat.NewSession(chat.RoleClient, conn, c.display, c.opts.logger, c.opts.channel)
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	session.Start()
	return nil
}

// Send writes text to the server.
func (c *Client) Send(text string) error {
	session := c.Session()
	if session == nil {
		return ErrNotConnected
	}
	return session.Send(text)
}

// Done is closed once the session has shut down. Before Connect it
// returns nil, which blocks forever in a select.
func (c *Client) Done() <-chan struct{} {
	session := c.Session()
	if session == nil {
		return nil
	}
	return session.Done()
}

// Disconnect ends the session from the local side.
func (c *Client) Disconnect() {
	if session := c.Session(); session != nil {
		session.Close()
	}
}

// IsConnected returns whether the client has a live session
func (c *Client) IsConnected() bool {
	session := c.Session()
	if session == nil {
		return false
	}
	select {
	case <-session.Done():
		return false
	default:
		return true
	}
}

// Session returns the current session, or nil before Connect.
func (c *Client) Session() *chat.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Address builds a dial address from host and port.
func Address(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
