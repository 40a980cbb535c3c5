// Package protocol implements the length-prefixed message framing shared by
// both chat endpoints.
//
// Every message travels as a 4-byte big-endian length followed by exactly
// that many payload bytes. How the message text maps to payload bytes is
// decided by a Codec, which both peers must agree on.
package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// TerminationToken is the reserved message that asks the receiving side to
// stop reading.
const TerminationToken = "exit"

const (
	// HeaderLength is the size of the length prefix in bytes.
	HeaderLength = 4

	// DefaultMaxMessageSize bounds the payload length accepted or produced
	// when no explicit limit is configured.
	DefaultMaxMessageSize = 16 << 20
)

var (
	// ErrRead marks any failure to receive a complete message.
	ErrRead = errors.New("read message")
	// ErrWrite marks any failure to send a message.
	ErrWrite = errors.New("write message")
	// ErrTruncated is reported when the stream ends inside a frame.
	ErrTruncated = errors.New("truncated frame")
	// ErrFrameTooLarge is reported for frames over the configured limit.
	ErrFrameTooLarge = errors.New("frame too large")
	// ErrInvalidPayload is reported when a payload does not decode to text.
	ErrInvalidPayload = errors.New("invalid payload")
)

// IsTermination reports whether text is the termination token.
// The comparison is case-sensitive.
func IsTermination(text string) bool {
	return text == TerminationToken
}

// CodecType selects the payload encoding.
type CodecType int

const (
	CodecRaw CodecType = iota
	CodecProto
)

// String returns the string representation of CodecType
func (ct CodecType) String() string {
	switch ct {
	case CodecRaw:
		return "raw"
	case CodecProto:
		return "proto"
	default:
		return "unknown"
	}
}

// ParseCodecType maps a configuration name to a CodecType.
// The empty string selects CodecRaw.
func ParseCodecType(name string) (CodecType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "raw":
		return CodecRaw, nil
	case "proto", "protobuf":
		return CodecProto, nil
	default:
		return CodecRaw, fmt.Errorf("unknown codec %q", name)
	}
}
