package chat

import (
	"context"
	"log"

	"github.com/omochice/duplex-chat/internal/console"
)

// Sender is where the send loop delivers operator input.
type Sender interface {
	Send(text string) error
}

// Input is the operator side of the send loop.
type Input interface {
	Prompt(text string)
	Lines() <-chan string
}

// SendLoop prompts for lines and sends every non-empty one. Send failures
// are logged and the loop goes on; it ends only when ctx is done or input
// is exhausted.
//
// Sending the termination token does not stop the loop: it asks the peer
// to stop reading.
func SendLoop(ctx context.Context, in Input, sender Sender, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}

	lines := in.Lines()
	for {
		in.Prompt(console.YouPrompt)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if line == "" {
				continue
			}
			if err := sender.Send(line); err != nil {
				logger.Printf("Failed to send message: %v", err)
			}
		}
	}
}
