package server_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/omochice/duplex-chat/internal/chat"
	"github.com/omochice/duplex-chat/internal/console"
	"github.com/omochice/duplex-chat/internal/server"
	"github.com/omochice/duplex-chat/internal/transport"
	"github.com/omochice/duplex-chat/internal/transport/tcp"
	"github.com/omochice/duplex-chat/internal/transport/ws"
	"github.com/omochice/duplex-chat/pkg/protocol"
)

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", what)
}

func startServer(t *testing.T, opts ...server.Option) (*server.Server, *safeBuffer) {
	t.Helper()
	out := &safeBuffer{}
	opts = append(opts, server.WithLogger(log.New(io.Discard, "", 0)))
	srv := server.New("127.0.0.1:0", console.New(strings.NewReader(""), out), opts...)

	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve()
	}()
	t.Cleanup(func() {
		srv.Stop()
		if err := <-errCh; err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	})

	return srv, out
}

func dialTCP(t *testing.T, addr string) (*tcp.Conn, *protocol.Writer, *protocol.Reader) {
	t.Helper()
	conn, err := tcp.Dial(context.Background(), addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, protocol.NewWriter(conn, nil, 0), protocol.NewReader(conn, nil, 0)
}

func TestServer_DisplaysClientMessage(t *testing.T) {
	srv, out := startServer(t)

	_, w, _ := dialTCP(t, srv.Addr())
	if err := w.WriteMessage("hello"); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}

	waitFor(t, "message display", func() bool {
		return strings.Contains(out.String(), "[Client] => hello\n")
	})
	if !strings.Contains(out.String(), "Connection established with: ") {
		t.Errorf("output missing connect notice: %q", out.String())
	}
}

func TestServer_SequentialSessions(t *testing.T) {
	srv, out := startServer(t)

	_, w1, r1 := dialTCP(t, srv.Addr())
	if err := w1.WriteMessage("exit"); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}

	if _, err := r1.ReadMessage(); !errors.Is(err, io.EOF) {
		t.Errorf("first client ReadMessage() error = %v, want io.EOF", err)
	}
	waitFor(t, "first session to finish", func() bool { return srv.SessionsServed() == 1 })

	if got := strings.Count(out.String(), "[Client] => exit"); got != 1 {
		t.Errorf("termination token displayed %d times, want 1", got)
	}
	if got := strings.Count(out.String(), "Connection closed"); got != 1 {
		t.Errorf("closure notice printed %d times, want 1", got)
	}

	_, w2, _ := dialTCP(t, srv.Addr())
	if err := w2.WriteMessage("second peer"); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	waitFor(t, "second client message", func() bool {
		return strings.Contains(out.String(), "[Client] => second peer")
	})
}

func TestServer_Send(t *testing.T) {
	srv, _ := startServer(t)

	if err := srv.Send("nobody there"); !errors.Is(err, chat.ErrNoSession) {
		t.Errorf("Send() without peer error = %v, want ErrNoSession", err)
	}

	_, _, r := dialTCP(t, srv.Addr())
	waitFor(t, "session", func() bool { return srv.Current() != nil })

	if err := srv.Send("welcome"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	got, err := r.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if got != "welcome" {
		t.Errorf("client received %q, want %q", got, "welcome")
	}
}

func TestServer_StopClosesSession(t *testing.T) {
	srv, _ := startServer(t)

	_, _, r := dialTCP(t, srv.Addr())
	waitFor(t, "session", func() bool { return srv.Current() != nil })

	srv.Stop()

	if _, err := r.ReadMessage(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadMessage() after Stop error = %v, want io.EOF", err)
	}
}

func TestServer_WebSocket(t *testing.T) {
	srv, out := startServer(t,
		server.WithTransport(transport.KindWebSocket),
		server.WithCodec(protocol.CodecProto),
	)

	conn, err := ws.Dial(context.Background(), srv.Addr())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	w := protocol.NewWriter(conn, protocol.NewCodec(protocol.CodecProto), 0)
	if err := w.WriteMessage("over websocket"); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}

	waitFor(t, "ws message display", func() bool {
		return strings.Contains(out.String(), "[Client] => over websocket")
	})
}

func TestServer_ListenError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	defer l.Close()

	srv := server.New(l.Addr().String(), console.New(strings.NewReader(""), io.Discard))
	if err := srv.Start(); !errors.Is(err, transport.ErrBind) {
		t.Errorf("Start() error = %v, want ErrBind", err)
	}
}

func TestServer_ServeBeforeListen(t *testing.T) {
	srv := server.New("127.0.0.1:0", console.New(strings.NewReader(""), io.Discard))
	if err := srv.Serve(); err == nil {
		t.Error("Serve() before Listen should fail")
	}
}

func TestServer_Port(t *testing.T) {
	srv := server.New(server.Address(9000), console.New(strings.NewReader(""), io.Discard))
	if got := srv.Port(); got != "9000" {
		t.Errorf("Port() = %q, want 9000", got)
	}
	if got := server.Address(8080); got != ":8080" {
		t.Errorf("Address(8080) = %q, want :8080", got)
	}
}
