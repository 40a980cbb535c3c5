package chat

import (
	"errors"
	"io"
	"log"
	"sync"

	"github.com/omochice/duplex-chat/internal/metrics"
	"github.com/omochice/duplex-chat/internal/transport"
	"github.com/omochice/duplex-chat/pkg/protocol"
)

// Display receives everything a session shows the operator.
type Display interface {
	Incoming(peer, text string)
	Println(a ...any)
}

// Outcome says why a session ended.
type Outcome int

const (
	// OutcomeRunning means the session has not ended yet.
	OutcomeRunning Outcome = iota
	// OutcomeToken means the peer sent the termination token.
	OutcomeToken
	// OutcomeReadError means receiving failed, including the peer closing.
	OutcomeReadError
	// OutcomeClosed means the local side closed the session.
	OutcomeClosed
)

// String returns the string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeToken:
		return "token"
	case OutcomeReadError:
		return "read_error"
	case OutcomeClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is the lifecycle of one connection: a background receive loop,
// a send path for the operator, and a shutdown that runs exactly once.
type Session struct {
	role    Role
	conn    transport.Conn
	channel *Channel
	display Display
	logger  *log.Logger

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}

	// outcome and err are written once inside closeOnce, before done is
	// closed, and read only after done.
	outcome Outcome
	err     error
}

// NewSession takes ownership of conn. Nothing is read until Start.
func NewSession(role Role, conn transport.Conn, display Display, logger *log.Logger, opts ChannelOptions) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		role:    role,
		conn:    conn,
		channel: NewChannel(conn, opts),
		display: display,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Start launches the receive loop. Later calls do nothing.
func (s *Session) Start() {
	s.startOnce.Do(func() {
		go s.receiveLoop()
	})
}

// Send writes one message to the peer. A failure is reported to the
// caller only; it does not end the session.
func (s *Session) Send(text string) error {
	if err := s.channel.SendMessage(text); err != nil {
		metrics.SendError(s.role.String())
		return err
	}
	metrics.MessageSent(s.role.String())
	return nil
}

// Close ends the session from the local side.
func (s *Session) Close() {
	s.shutdown(OutcomeClosed, nil)
}

// Done is closed once shutdown has finished.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session has ended and returns its outcome.
func (s *Session) Wait() (Outcome, error) {
	<-s.done
	return s.outcome, s.err
}

// RemoteAddr returns the peer address.
func (s *Session) RemoteAddr() string {
	return s.conn.RemoteAddr()
}

func (s *Session) receiveLoop() {
	peer := s.role.PeerLabel()
	for {
		text, err := s.channel.ReceiveMessage()
		if err != nil {
			if s.channel.Closed() {
				// closed locally; shutdown is already under way
				return
			}
			if errors.Is(err, io.EOF) {
				s.logger.Printf("Peer %s closed the connection", s.conn.RemoteAddr())
			} else {
				s.logger.Printf("Error receiving from %s: %v", s.conn.RemoteAddr(), err)
			}
			s.shutdown(OutcomeReadError, err)
			return
		}

		metrics.MessageReceived(s.role.String())
		s.display.Incoming(peer, text)

		if protocol.IsTermination(text) {
			s.shutdown(OutcomeToken, nil)
			return
		}
	}
}

// shutdown closes the channel, then the connection, then prints the
// closure notice. Only the first caller does any of it.
func (s *Session) shutdown(outcome Outcome, cause error) {
	s.closeOnce.Do(func() {
		s.outcome = outcome
		s.err = cause

		s.channel.Close()
		if err := s.conn.Close(); err != nil {
			s.logger.Printf("Error closing connection to %s: %v", s.conn.RemoteAddr(), err)
		}
		s.display.Println(s.role.ClosureNotice())
		metrics.SessionEnded(s.role.String(), outcome.String())

		close(s.done)
	})
}
