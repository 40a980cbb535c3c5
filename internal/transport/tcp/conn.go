// Package tcp provides the raw TCP transport for the chat endpoints.
package tcp

import (
	"net"
	"sync"
)

// Conn adapts net.Conn to transport.Conn.
type Conn struct {
	conn      net.Conn
	closeOnce sync.Once
	closeErr  error
}

// NewConn wraps a net.Conn.
func NewConn(conn net.Conn) *Conn {
	return &Conn{conn: conn}
}

// Read implements transport.Conn.
func (c *Conn) Read(p []byte) (int, error) {
	return c.conn.Read(p)
}

// Write implements transport.Conn.
func (c *Conn) Write(p []byte) (int, error) {
	return c.conn.Write(p)
}

// Close implements transport.Conn.
// Only the first call closes the socket; later calls return nil.
func (c *Conn) Close() error {
	closed := false
	c.closeOnce.Do(func() {
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

// NetConn returns the underlying connection.
func (c *Conn) NetConn() net.Conn {
	return c.conn
}
