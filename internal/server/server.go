// Package server runs the listening endpoint: it accepts one peer at a
// time and serves each connection until it ends, then accepts the next.
package server

import (
	"errors"
	"net"
	"strconv"
	"sync"

	"github.com/omochice/duplex-chat/internal/chat"
	"github.com/omochice/duplex-chat/internal/transport"
	"github.com/omochice/duplex-chat/internal/transport/tcp"
	"github.com/omochice/duplex-chat/internal/transport/ws"
)

// Display is what the server prints to the operator.
type Display interface {
	chat.Display
	Printf(format string, a ...any)
}

// Server represents the listening chat endpoint
type Server struct {
	address  string
	opts     *serverOptions
	display  Display
	listener transport.Listener
	hub      *chat.Hub
	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu     sync.Mutex
	served int
}

// New creates a new Server instance
func New(address string, display Display, opts ...Option) *Server {
	o := defaultServerOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Server{
		address: address,
		opts:    o,
		display: display,
		hub:     chat.NewHub(),
		quit:    make(chan struct{}),
	}
}

// Listen binds the configured address. Errors wrap transport.ErrBind.
func (s *Server) Listen() error {
	var (
		listener transport.Listener
		err      error
	)
	switch s.opts.transport {
	case transport.KindWebSocket:
		listener, err = ws.Listen(s.address)
	default:
		listener, err = tcp.Listen(s.address)
	}
	if err != nil {
		return err
	}
	s.listener = listener
	s.opts.logger.Printf("Listening on %s (%s, %s codec)", listener.Addr(), s.opts.transport, s.opts.channel.Codec)
	return nil
}

// Serve accepts peers one at a time until Stop. It returns nil after Stop
// and an error wrapping transport.ErrAccept if the listener fails. Listen
// must have succeeded first.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("server: Serve called before Listen")
	}

	s.wg.Add(1)
	defer s.wg.Done()

	for {
		s.display.Printf("Waiting for incoming connection on port %s...\n", s.Port())

		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return nil
			default:
			}
			if errors.Is(err, transport.ErrAccept) {
				return err
			}
			s.opts.logger.Printf("Failed to accept connection: %v", err)
			continue
		}

		if !s.serveSession(conn) {
			return nil
		}
	}
}

// Start is Listen followed by Serve.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// serveSession runs one peer to completion. It reports false when the
// server was stopped meanwhile.
func (s *Server) serveSession(conn transport.Conn) bool {
	session := chat.NewSession(chat.RoleServer, conn, s.display, s.opts.logger, s.opts.channel)
	if err := s.hub.Attach(session); err != nil {
		s.opts.logger.Printf("Rejecting %s: %v", conn.RemoteAddr(), err)
		session.Close()
		return true
	}
	defer s.hub.Detach(session)

	s.display.Printf("Connection established with: %s\n\n", conn.RemoteAddr())
	session.Start()

	select {
	case <-session.Done():
	case <-s.quit:
		session.Close()
		return false
	}

	s.mu.Lock()
	s.served++
	s.mu.Unlock()

	select {
	case <-s.quit:
		return false
	default:
		return true
	}
}

// Send writes text to the connected peer. It fails with chat.ErrNoSession
// while the server waits for a peer.
func (s *Server) Send(text string) error {
	return s.hub.Send(text)
}

// Stop closes the listener and the active session, then waits for Serve
// to return.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		if s.listener != nil {
			s.listener.Close()
		}
		s.hub.Close()
	})
	s.wg.Wait()
}

// Addr returns the server's listening address
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr()
	}
	return ""
}

// Port returns the bound port, or the configured address before Listen.
func (s *Server) Port() string {
	addr := s.Addr()
	if addr == "" {
		addr = s.address
	}
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}

// Current returns the active session, or nil while waiting for a peer.
func (s *Server) Current() *chat.Session {
	return s.hub.Current()
}

// SessionsServed returns the number of sessions that ran to completion.
func (s *Server) SessionsServed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.served
}

// Address builds a listen address from a port number.
func Address(port int) string {
	return net.JoinHostPort("", strconv.Itoa(port))
}
