// Package transport defines the connection contract shared by the TCP and
// WebSocket endpoints.
package transport

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrBind is returned when a listener cannot be opened.
	ErrBind = errors.New("bind")
	// ErrAccept is returned when a listener fails while waiting for a peer.
	ErrAccept = errors.New("accept")
	// ErrConnect is returned when dialing the peer fails.
	ErrConnect = errors.New("connect")
)

// Conn is one bidirectional ordered byte stream to the peer.
//
// Read and Write may be called concurrently from different goroutines,
// one reader and one writer at a time. Close is idempotent.
type Conn interface {
	io.Reader
	io.Writer
	io.Closer

	// LocalAddr returns the local address for display.
	LocalAddr() string
	// RemoteAddr returns the remote address for display.
	RemoteAddr() string
}

// Listener yields peer connections one at a time.
type Listener interface {
	// Accept blocks until a peer connects. Errors wrap ErrAccept.
	Accept() (Conn, error)
	// Close stops the listener; a blocked Accept returns.
	Close() error
	// Addr returns the bound address.
	Addr() string
}

// Kind selects the transport implementation.
type Kind int

const (
	KindTCP Kind = iota
	KindWebSocket
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindTCP:
		return "tcp"
	case KindWebSocket:
		return "ws"
	default:
		return "unknown"
	}
}

// ParseKind maps a configuration name to a Kind. The empty string selects
// KindTCP.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "tcp":
		return KindTCP, nil
	case "ws", "websocket":
		return KindWebSocket, nil
	default:
		return KindTCP, fmt.Errorf("unknown transport %q", name)
	}
}
