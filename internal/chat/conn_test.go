package chat_test

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/omochice/duplex-chat/internal/transport"
	"github.com/omochice/duplex-chat/internal/transport/tcp"
	"github.com/omochice/duplex-chat/pkg/protocol"
)

// countingConn records how often Close reaches the transport.
type countingConn struct {
	*tcp.Conn
	closes atomic.Int32
}

func (c *countingConn) Close() error {
	c.closes.Add(1)
	return c.Conn.Close()
}

var _ transport.Conn = (*countingConn)(nil)

// pipe returns a session-side conn and the raw peer end of an in-memory
// connection.
func pipe(t *testing.T) (*countingConn, net.Conn) {
	t.Helper()
	local, peer := net.Pipe()
	t.Cleanup(func() {
		local.Close()
		peer.Close()
	})
	return &countingConn{Conn: tcp.NewConn(local)}, peer
}

func writeFrames(t *testing.T, w net.Conn, messages ...string) {
	t.Helper()
	for _, m := range messages {
		frame, err := protocol.Encode(protocol.NewCodec(protocol.CodecRaw), m, 0)
		if err != nil {
			t.Errorf("Encode(%q) error = %v", m, err)
			return
		}
		if _, err := w.Write(frame); err != nil {
			t.Errorf("peer Write() error = %v", err)
			return
		}
	}
}

// recordingDisplay is a chat.Display that keeps everything it is shown.
type recordingDisplay struct {
	mu       sync.Mutex
	incoming []string
	lines    []string
}

func (d *recordingDisplay) Incoming(peer, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.incoming = append(d.incoming, fmt.Sprintf("[%s] => %s", peer, text))
}

func (d *recordingDisplay) Println(a ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = append(d.lines, fmt.Sprint(a...))
}

func (d *recordingDisplay) Incomings() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.incoming...)
}

func (d *recordingDisplay) Lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.lines...)
}
