package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Encode frames text with the given codec. The result holds the length
// prefix followed by the payload, ready for a single Write call.
func Encode(codec Codec, text string, maxSize int) ([]byte, error) {
	payload, err := codec.Marshal(text)
	if err != nil {
		return nil, err
	}
	if maxSize > 0 && len(payload) > maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFrameTooLarge, len(payload), maxSize)
	}
	frame := make([]byte, HeaderLength+len(payload))
	binary.BigEndian.PutUint32(frame[:HeaderLength], uint32(len(payload)))
	copy(frame[HeaderLength:], payload)
	return frame, nil
}

// Decode reads exactly one frame from r and returns its text.
// A stream that ends before the first prefix byte yields io.EOF; a stream
// that ends anywhere inside a frame yields ErrTruncated.
func Decode(r io.Reader, codec Codec, maxSize int) (string, error) {
	var header [HeaderLength]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return "", fmt.Errorf("%w: short length prefix", ErrTruncated)
		}
		return "", err
	}

	length := binary.BigEndian.Uint32(header[:])
	if maxSize > 0 && uint64(length) > uint64(maxSize) {
		return "", fmt.Errorf("%w: declared %d bytes, limit %d", ErrFrameTooLarge, length, maxSize)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return "", fmt.Errorf("%w: want %d payload bytes", ErrTruncated, length)
		}
		return "", err
	}

	return codec.Unmarshal(payload)
}

// Writer sends framed messages over an io.Writer.
// It is not safe for concurrent use; the owning send path serializes calls.
type Writer struct {
	w       io.Writer
	codec   Codec
	maxSize int
}

// NewWriter creates a Writer. A maxSize of zero or less disables the limit.
func NewWriter(w io.Writer, codec Codec, maxSize int) *Writer {
	if codec == nil {
		codec = NewCodec(CodecRaw)
	}
	return &Writer{w: w, codec: codec, maxSize: maxSize}
}

// WriteMessage encodes text and writes the whole frame at once.
// Every failure is wrapped in ErrWrite.
func (w *Writer) WriteMessage(text string) error {
	frame, err := Encode(w.codec, text, w.maxSize)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if _, err := w.w.Write(frame); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Reader receives framed messages from an io.Reader.
// It is not safe for concurrent use; the owning receive path serializes calls.
type Reader struct {
	r       io.Reader
	codec   Codec
	maxSize int
}

// NewReader creates a Reader. A maxSize of zero or less disables the limit.
func NewReader(r io.Reader, codec Codec, maxSize int) *Reader {
	if codec == nil {
		codec = NewCodec(CodecRaw)
	}
	return &Reader{r: r, codec: codec, maxSize: maxSize}
}

// ReadMessage blocks until one complete message is available.
// Every failure is wrapped in ErrRead; a clean close by the peer also
// matches io.EOF.
func (r *Reader) ReadMessage() (string, error) {
	text, err := Decode(r.r, r.codec, r.maxSize)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRead, err)
	}
	return text, nil
}
