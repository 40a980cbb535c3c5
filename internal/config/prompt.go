package config

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter is the console surface the startup prompts need.
type Prompter interface {
	Prompt(text string)
	ReadLine() (string, error)
}

// PromptPort asks for a port. Empty input, or input that ends before a
// line is entered, keeps def.
func PromptPort(p Prompter, def int) (int, error) {
	p.Prompt(fmt.Sprintf("Enter port (%d by default): ", def))
	line, err := p.ReadLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	return ParsePort(line, def)
}

// PromptHost asks for the peer host. Empty input keeps def.
func PromptHost(p Prompter, def string) (string, error) {
	p.Prompt(fmt.Sprintf("Enter IP (%s by default): ", def))
	line, err := p.ReadLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if host := strings.TrimSpace(line); host != "" {
		return host, nil
	}
	return def, nil
}

// ParsePort parses operator input as a port number. Empty input yields def.
func ParsePort(input string, def int) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return def, nil
	}
	port, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("%w: port %q is not an integer", ErrParse, input)
	}
	if err := checkPort(port); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return port, nil
}
