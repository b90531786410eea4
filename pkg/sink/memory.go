package sink

import (
	"bytes"
	"context"

	"github.com/google/uuid"
)

// Memory accumulates uploaded files in per-part buffers. Nothing outlives
// the returned FileInfo, whose Content field carries the bytes; the sink
// itself holds no state and Remove is a no-op.
type Memory struct{}

// NewMemory creates a memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Open implements Sink.
func (m *Memory) Open(_ context.Context, _, contentType string) (Destination, error) {
	return &memoryDestination{key: uuid.NewString(), contentType: contentType}, nil
}

// Remove implements Sink.
func (m *Memory) Remove(_ context.Context, _ string) error {
	return nil
}

// memoryDestination buffers one part in memory.
type memoryDestination struct {
	buf         bytes.Buffer
	key         string
	contentType string
	done        bool
}

// Write implements io.Writer.
func (dst *memoryDestination) Write(p []byte) (int, error) {
	if dst.done {
		return 0, ErrClosed
	}
	return dst.buf.Write(p)
}

// Close implements Destination.
func (dst *memoryDestination) Close(_ context.Context) (*FileInfo, error) {
	if dst.done {
		return nil, ErrClosed
	}
	dst.done = true

	return &FileInfo{
		Key:         dst.key,
		ContentType: dst.contentType,
		Size:        int64(dst.buf.Len()),
		Content:     dst.buf.Bytes(),
	}, nil
}

// Discard implements Destination.
func (dst *memoryDestination) Discard(_ context.Context) error {
	dst.done = true
	dst.buf.Reset()
	return nil
}
