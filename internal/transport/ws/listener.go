package ws

import (
	"context"
	"errors"
	"fmt"

	"github.com/gobwas/ws"

	"github.com/omochice/duplex-chat/internal/transport"
	"github.com/omochice/duplex-chat/internal/transport/tcp"
)

// ErrHandshake is returned by Accept when a peer connected but did not
// complete the WebSocket upgrade. The listener itself stays usable.
var ErrHandshake = errors.New("websocket handshake")

// Listener accepts TCP peers and upgrades them in place.
type Listener struct {
	tcp *tcp.Listener
}

// Listen binds address. Failures wrap transport.ErrBind.
func Listen(address string) (*Listener, error) {
	l, err := tcp.Listen(address)
	if err != nil {
		return nil, err
	}
	return &Listener{tcp: l}, nil
}

// Accept implements transport.Listener.
func (l *Listener) Accept() (transport.Conn, error) {
	conn, err := l.tcp.AcceptTCP()
	if err != nil {
		return nil, err
	}

	if _, err := ws.Upgrade(conn.NetConn()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w from %s: %w", ErrHandshake, conn.RemoteAddr(), err)
	}

	return newConn(conn.NetConn(), nil, ws.StateServerSide), nil
}

// Close implements transport.Listener.
func (l *Listener) Close() error {
	return l.tcp.Close()
}

// Addr implements transport.Listener.
func (l *Listener) Addr() string {
	return l.tcp.Addr()
}

// Dial opens a WebSocket connection to ws://address/.
// Failures wrap transport.ErrConnect.
func Dial(ctx context.Context, address string) (*Conn, error) {
	conn, br, _, err := ws.Dial(ctx, "ws://"+address+"/")
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", transport.ErrConnect, address, err)
	}

	// br is non-nil when the server sent frames right after the handshake
	// response; they must be consumed before reading from conn.
	if br != nil {
		return newConn(conn, br, ws.StateClientSide), nil
	}
	return newConn(conn, nil, ws.StateClientSide), nil
}
