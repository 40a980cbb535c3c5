package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/omochice/duplex-chat/internal/chat"
	"github.com/omochice/duplex-chat/internal/config"
	"github.com/omochice/duplex-chat/internal/console"
	"github.com/omochice/duplex-chat/internal/metrics"
	"github.com/omochice/duplex-chat/internal/server"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to a YAML config file")
	prompt := flag.Bool("prompt", true, "Ask for the listening port on startup")
	transportName := flag.String("transport", "", "Transport: tcp or ws (overrides config)")
	codecName := flag.String("codec", "", "Payload codec: raw or proto (overrides config)")
	flag.Parse()

	cfg, err := config.Resolve(*configPath, *transportName, *codecName)
	if err != nil {
		log.Printf("Invalid configuration: %v", err)
		os.Exit(1)
	}

	con := console.New(os.Stdin, os.Stdout)

	port := cfg.Server.Port
	if *prompt {
		port, err = config.PromptPort(con, port)
		if err != nil {
			log.Printf("Invalid port: %v", err)
			os.Exit(1)
		}
	}

	kind, _ := cfg.TransportKind()
	codec, _ := cfg.CodecType()

	if cfg.Metrics.Address != "" {
		ms, err := metrics.Listen(cfg.Metrics.Address, log.Default())
		if err != nil {
			log.Printf("Failed to start metrics server: %v", err)
			os.Exit(1)
		}
		defer ms.Shutdown(context.Background())
	}

	srv := server.New(server.Address(port), con,
		server.WithTransport(kind),
		server.WithCodec(codec),
		server.WithMaxMessageSize(cfg.MaxMessageSize),
	)
	if err := srv.Listen(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go chat.SendLoop(ctx, con, srv, log.Default())

	// Wait for either error or shutdown signal
	select {
	case err := <-errChan:
		if err != nil {
			log.Printf("Server error: %v", err)
			os.Exit(1)
		}
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down...", sig)
		srv.Stop()
	}

	log.Println("Server stopped")
}
