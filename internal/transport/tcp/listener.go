package tcp

import (
	"context"
	"fmt"
	"net"

	"github.com/omochice/duplex-chat/internal/transport"
)

// Listener accepts TCP peers.
type Listener struct {
	listener net.Listener
}

// Listen binds address. Failures wrap transport.ErrBind.
func Listen(address string) (*Listener, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", transport.ErrBind, address, err)
	}
	return &Listener{listener: listener}, nil
}

// Accept implements transport.Listener.
// After Close the returned error also matches net.ErrClosed.
func (l *Listener) Accept() (transport.Conn, error) {
	conn, err := l.AcceptTCP()
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// AcceptTCP is Accept with the concrete connection type.
func (l *Listener) AcceptTCP() (*Conn, error) {
	conn, err := l.listener.Accept()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", transport.ErrAccept, err)
	}
	return NewConn(conn), nil
}

// Close implements transport.Listener.
func (l *Listener) Close() error {
	return l.listener.Close()
}

// Addr implements transport.Listener.
func (l *Listener) Addr() string {
	return l.listener.Addr().String()
}

// Dial connects to address. Failures wrap transport.ErrConnect.
func Dial(ctx context.Context, address string) (*Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", transport.ErrConnect, address, err)
	}
	return NewConn(conn), nil
}
