// Package metrics exposes chat traffic counters for prometheus.
package metrics

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	messagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Total number of messages written to the peer",
		},
		[]string{"role"},
	)
	messagesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_received_total",
			Help: "Total number of messages decoded from the peer",
		},
		[]string{"role"},
	)
	sendErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_send_errors_total",
			Help: "Total number of failed message writes",
		},
		[]string{"role"},
	)
	sessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_sessions_total",
			Help: "Total number of finished sessions by outcome",
		},
		[]string{"role", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(messagesSent)
	prometheus.MustRegister(messagesReceived)
	prometheus.MustRegister(sendErrors)
	prometheus.MustRegister(sessions)
}

func MessageSent(role string)     { messagesSent.WithLabelValues(role).Inc() }
func MessageReceived(role string) { messagesReceived.WithLabelValues(role).Inc() }
func SendError(role string)       { sendErrors.WithLabelValues(role).Inc() }

func SessionEnded(role, outcome string) {
	sessions.WithLabelValues(role, outcome).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Server serves /metrics until Shutdown.
type Server struct {
	listener net.Listener
	server   *http.Server
}

// Listen binds address and starts serving /metrics in the background.
func Listen(address string, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	s := &Server{
		listener: listener,
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("Metrics server error: %v", err)
		}
	}()

	logger.Printf("Metrics available on http://%s/metrics", listener.Addr().String())
	return s, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Shutdown stops the metrics server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
