// Package ws carries the chat byte stream over WebSocket binary messages
// using gobwas/ws.
//
// WebSocket message boundaries carry no meaning here: the framing layer
// above sees one continuous stream, exactly as with raw TCP.
package ws

import (
	"errors"
	"io"
	"net"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// Conn adapts a WebSocket connection to transport.Conn.
type Conn struct {
	conn   net.Conn
	reader io.Reader
	state  ws.State

	// buffered holds the unread tail of the last data message. Only the
	// reading goroutine touches it.
	buffered []byte

	// writeMu serializes data frames with control replies sent while reading.
	writeMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

func newConn(conn net.Conn, reader io.Reader, state ws.State) *Conn {
	if reader == nil {
		reader = conn
	}
	return &Conn{conn: conn, reader: reader, state: state}
}

// Read implements transport.Conn.
// A close frame from the peer is reported as io.EOF.
func (c *Conn) Read(p []byte) (int, error) {
	for len(c.buffered) == 0 {
		data, _, err := wsutil.ReadData(readWriter{Reader: c.reader, Writer: lockedWriter{c}}, c.state)
		if err != nil {
			var closed wsutil.ClosedError
			if errors.As(err, &closed) {
				return 0, io.EOF
			}
			return 0, err
		}
		c.buffered = data
	}

	n := copy(p, c.buffered)
	c.buffered = c.buffered[n:]
	return n, nil
}

// Write implements transport.Conn. Each call becomes one binary message.
func (c *Conn) Write(p []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := wsutil.WriteMessage(c.conn, c.state, ws.OpBinary, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close implements transport.Conn.
// The first call sends a close frame and closes the socket; later calls
// return nil.
func (c *Conn) Close() error {
	closed := false
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		body := ws.NewCloseFrameBody(ws.StatusNormalClosure, "")
		_ = wsutil.WriteMessage(c.conn, c.state, ws.OpClose, body)
		c.writeMu.Unlock()

		c.closeErr = c.conn.Close()
		closed = true
	})
	if closed {
		return c.closeErr
	}
	return nil
}

// LocalAddr implements transport.Conn.
func (c *Conn) LocalAddr() string {
	return c.conn.LocalAddr().String()
}

// RemoteAddr implements transport.Conn.
func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

type readWriter struct {
	io.Reader
	io.Writer
}

// lockedWriter routes control frame replies through the connection's
// write lock.
type lockedWriter struct {
	c *Conn
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.c.writeMu.Lock()
	defer w.c.writeMu.Unlock()
	return w.c.conn.Write(p)
}
