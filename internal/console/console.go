// Package console serializes operator-facing output and reads operator
// input line by line.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// YouPrompt is printed before each line of operator input.
const YouPrompt = "[You] => "

// Console wraps the operator's input and output streams.
type Console struct {
	in *bufio.Reader

	mu  sync.Mutex
	out io.Writer

	linesOnce sync.Once
	lines     chan string
}

// New creates a Console reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// ReadLine blocks until a full line is available and returns it without
// the trailing line break. It returns io.EOF once input is exhausted.
// ReadLine must not be called after Lines.
func (c *Console) ReadLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Lines starts a single background reader and returns the channel it feeds.
// The channel is closed when input ends. Repeated calls return the same
// channel.
func (c *Console) Lines() <-chan string {
	c.linesOnce.Do(func() {
		c.lines = make(chan string)
		go func() {
			defer close(c.lines)
			for {
				line, err := c.ReadLine()
				if err != nil {
					return
				}
				c.lines <- line
			}
		}()
	})
	return c.lines
}

// Prompt prints text without a trailing newline.
func (c *Console) Prompt(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, text)
}

// Println prints a line.
func (c *Console) Println(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, a...)
}

// Printf prints formatted text.
func (c *Console) Printf(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, a...)
}

// Incoming displays a message received from peer.
func (c *Console) Incoming(peer, text string) {
	c.Printf("[%s] => %s\n", peer, text)
}
