package tcp_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/omochice/duplex-chat/internal/transport"
	"github.com/omochice/duplex-chat/internal/transport/tcp"
)

func TestListener_ImplementsInterface(t *testing.T) {
	var _ transport.Listener = (*tcp.Listener)(nil)
}

func TestListenDial(t *testing.T) {
	l, err := tcp.Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer l.Close()

	accepted := make(chan transport.Conn, 1)
	go func() {
		conn, err := l.Accept()
		if err != nil {
			t.Errorf("Accept() error = %v", err)
			close(accepted)
			return
		}
		accepted <- conn
	}()

	client, err := tcp.Dial(context.Background(), l.Addr())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer client.Close()

	server, ok := <-accepted
	if !ok {
		t.Fatal("no connection accepted")
	}
	defer server.Close()

	if server.RemoteAddr() != client.LocalAddr() {
		t.Errorf("server sees %s, client is %s", server.RemoteAddr(), client.LocalAddr())
	}

	if _, err := client.Write([]byte("ping")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	buf := make([]byte, 4)
	if _, err := server.Read(buf); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(buf) != "ping" {
		t.Errorf("Read() = %q, want %q", buf, "ping")
	}
}

func TestListen_AddressInUse(t *testing.T) {
	l, err := tcp.Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer l.Close()

	_, err = tcp.Listen(l.Addr())
	if !errors.Is(err, transport.ErrBind) {
		t.Errorf("Listen() error = %v, want ErrBind", err)
	}
}

func TestListener_AcceptAfterClose(t *testing.T) {
	l, err := tcp.Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	l.Close()

	_, err = l.Accept()
	if !errors.Is(err, transport.ErrAccept) {
		t.Errorf("Accept() error = %v, want ErrAccept", err)
	}
	if !errors.Is(err, net.ErrClosed) {
		t.Errorf("Accept() error = %v, want net.ErrClosed", err)
	}
}

func TestDial_Refused(t *testing.T) {
	l, err := tcp.Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	addr := l.Addr()
	l.Close()

	_, err = tcp.Dial(context.Background(), addr)
	if !errors.Is(err, transport.ErrConnect) {
		t.Errorf("Dial() error = %v, want ErrConnect", err)
	}
}
