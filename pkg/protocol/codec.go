package protocol

import (
	"fmt"
	"unicode/utf8"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Codec converts message text to and from frame payloads.
type Codec interface {
	Type() CodecType
	Marshal(text string) ([]byte, error)
	Unmarshal(payload []byte) (string, error)
}

// NewCodec returns the Codec for ct. Unknown types fall back to raw UTF-8,
// the wire format every peer understands.
func NewCodec(ct CodecType) Codec {
	switch ct {
	case CodecProto:
		return protoCodec{}
	default:
		return rawCodec{}
	}
}

// rawCodec puts the UTF-8 bytes of the text on the wire unchanged.
type rawCodec struct{}

func (rawCodec) Type() CodecType { return CodecRaw }

func (rawCodec) Marshal(text string) ([]byte, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: text is not valid UTF-8", ErrInvalidPayload)
	}
	return []byte(text), nil
}

func (rawCodec) Unmarshal(payload []byte) (string, error) {
	if !utf8.Valid(payload) {
		return "", fmt.Errorf("%w: payload is not valid UTF-8", ErrInvalidPayload)
	}
	return string(payload), nil
}

// protoCodec wraps the text in a google.protobuf.StringValue.
type protoCodec struct{}

func (protoCodec) Type() CodecType { return CodecProto }

func (protoCodec) Marshal(text string) ([]byte, error) {
	data, err := proto.Marshal(wrapperspb.String(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return data, nil
}

func (protoCodec) Unmarshal(payload []byte) (string, error) {
	pbMsg := &wrapperspb.StringValue{}
	if err := proto.Unmarshal(payload, pbMsg); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return pbMsg.GetValue(), nil
}
