package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/omochice/duplex-chat/internal/chat"
	"github.com/omochice/duplex-chat/internal/client"
	"github.com/omochice/duplex-chat/internal/config"
	"github.com/omochice/duplex-chat/internal/console"
	"github.com/omochice/duplex-chat/internal/metrics"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to a YAML config file")
	prompt := flag.Bool("prompt", true, "Ask for the server address on startup")
	transportName := flag.String("transport", "", "Transport: tcp or ws (overrides config)")
	codecName := flag.String("codec", "", "Payload codec: raw or proto (overrides config)")
	flag.Parse()

	cfg, err := config.Resolve(*configPath, *transportName, *codecName)
	if err != nil {
		log.Printf("Invalid configuration: %v", err)
		os.Exit(1)
	}

	con := console.New(os.Stdin, os.Stdout)

	host, port := cfg.Client.Host, cfg.Client.Port
	if *prompt {
		if host, err = config.PromptHost(con, host); err != nil {
			log.Printf("Invalid host: %v", err)
			os.Exit(1)
		}
		if port, err = config.PromptPort(con, port); err != nil {
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

	c := client.New(client.Address(host, port), con,
		client.WithTransport(kind),
		client.WithCodec(codec),
		client.WithMaxMessageSize(cfg.MaxMessageSize),
	)

	// Connect to server
	if err := c.Connect(context.Background()); err != nil {
		log.Printf("Failed to connect to server: %v", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go chat.SendLoop(ctx, con, c, log.Default())

	// The session ends when the server sends "exit", closes the
	// connection, or a read fails; the blocked stdin reader goes away
	// with the process.
	select {
	case <-c.Done():
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down...", sig)
		c.Disconnect()
	}
}
