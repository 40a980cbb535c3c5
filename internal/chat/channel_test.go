package chat_test

import (
	"errors"
	"io"
	"net"
	"testing"

	"github.com/omochice/duplex-chat/internal/chat"
	"github.com/omochice/duplex-chat/internal/transport/tcp"
	"github.com/omochice/duplex-chat/pkg/protocol"
)

func TestChannel_SendReceive(t *testing.T) {
	for _, ct := range []protocol.CodecType{protocol.CodecRaw, protocol.CodecProto} {
		t.Run(ct.String(), func(t *testing.T) {
			a, b := net.Pipe()
			defer a.Close()
			defer b.Close()

			opts := chat.ChannelOptions{Codec: ct, MaxMessageSize: 1024}
			left := chat.NewChannel(tcp.NewConn(a), opts)
			right := chat.NewChannel(tcp.NewConn(b), opts)

			errCh := make(chan error, 1)
			go func() {
				errCh <- left.SendMessage("ping ✓")
			}()

			got, err := right.ReceiveMessage()
			if err != nil {
				t.Fatalf("ReceiveMessage() error = %v", err)
			}
			if got != "ping ✓" {
				t.Errorf("ReceiveMessage() = %q, want %q", got, "ping ✓")
			}
			if err := <-errCh; err != nil {
				t.Errorf("SendMessage() error = %v", err)
			}
		})
	}
}

func TestChannel_Close(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	ch := chat.NewChannel(tcp.NewConn(a), chat.DefaultChannelOptions())

	if !ch.Close() {
		t.Error("first Close() = false, want true")
	}
	if ch.Close() {
		t.Error("second Close() = true, want false")
	}
	if !ch.Closed() {
		t.Error("Closed() = false after Close")
	}

	err := ch.SendMessage("late")
	if !errors.Is(err, protocol.ErrWrite) || !errors.Is(err, chat.ErrChannelClosed) {
		t.Errorf("SendMessage() error = %v, want ErrWrite and ErrChannelClosed", err)
	}
}

func TestChannel_ReceivePeerClosed(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()

	ch := chat.NewChannel(tcp.NewConn(a), chat.DefaultChannelOptions())
	b.Close()

	_, err := ch.ReceiveMessage()
	if !errors.Is(err, protocol.ErrRead) || !errors.Is(err, io.EOF) {
		t.Errorf("ReceiveMessage() error = %v, want ErrRead and io.EOF", err)
	}
}
