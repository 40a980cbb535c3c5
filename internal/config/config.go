// Package config holds endpoint settings: built-in defaults, an optional
// YAML file, and the interactive startup prompts.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/omochice/duplex-chat/internal/transport"
	"github.com/omochice/duplex-chat/pkg/protocol"
)

// ErrParse marks invalid configuration input. It is fatal at startup.
var ErrParse = errors.New("config parse")

const (
	DefaultPort = 8080
	DefaultHost = "localhost"
)

type Config struct {
	Server         ServerConfig  `yaml:"server"`
	Client         ClientConfig  `yaml:"client"`
	Transport      string        `yaml:"transport"` // tcp/ws
	Codec          string        `yaml:"codec"`     // raw/proto
	MaxMessageSize int           `yaml:"max_message_size"`
	Metrics        MetricsConfig `yaml:"metrics"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type ClientConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type MetricsConfig struct {
	// Address enables the /metrics endpoint when non-empty.
	Address string `yaml:"address"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() *Config {
	return &Config{
		Server:         ServerConfig{Port: DefaultPort},
		Client:         ClientConfig{Host: DefaultHost, Port: DefaultPort},
		Transport:      transport.KindTCP.String(),
		Codec:          protocol.CodecRaw.String(),
		MaxMessageSize: protocol.DefaultMaxMessageSize,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field. Errors wrap ErrParse.
func (c *Config) Validate() error {
	if err := checkPort(c.Server.Port); err != nil {
		return fmt.Errorf("%w: server.port: %w", ErrParse, err)
	}
	if err := checkPort(c.Client.Port); err != nil {
		return fmt.Errorf("%w: client.port: %w", ErrParse, err)
	}
	if _, err := c.TransportKind(); err != nil {
		return err
	}
	if _, err := c.CodecType(); err != nil {
		return err
	}
	if c.MaxMessageSize < 0 {
		return fmt.Errorf("%w: max_message_size must not be negative", ErrParse)
	}
	return nil
}

// TransportKind parses the Transport field.
func (c *Config) TransportKind() (transport.Kind, error) {
	kind, err := transport.ParseKind(c.Transport)
	if err != nil {
		return kind, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return kind, nil
}

// CodecType parses the Codec field.
func (c *Config) CodecType() (protocol.CodecType, error) {
	ct, err := protocol.ParseCodecType(c.Codec)
	if err != nil {
		return ct, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return ct, nil
}

func checkPort(port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("port %d out of range", port)
	}
	return nil
}

// Resolve loads path, or the defaults when path is empty, then applies the
// non-empty command-line overrides and validates the result.
func Resolve(path, transportName, codecName string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if transportName != "" {
		cfg.Transport = transportName
	}
	if codecName != "" {
		cfg.Codec = codecName
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
