package sink

import (
	"context"
	"io"
)

// Sink resolves where the bytes of an accepted upload part are written.
// Implementations must be safe for concurrent use; each Open returns an
// independent Destination owned by a single part.
type Sink interface {
	// Open allocates a destination for one accepted file part.
	// originalName and contentType are the client-declared values; trust
	// decisions about them belong to the admission gate, not the sink.
	Open(ctx context.Context, originalName, contentType string) (Destination, error)

	// Remove deletes a previously stored file by its key.
	Remove(ctx context.Context, key string) error
}

// Destination receives the bytes of exactly one part. Exactly one of
// Close or Discard must be called.
type Destination interface {
	io.Writer

	// Close finalizes the destination and returns metadata for the stored file.
	Close(ctx context.Context) (*FileInfo, error)

	// Discard abandons the destination and removes any bytes already
	// written, including partial disk or memory writes.
	Discard(ctx context.Context) error
}

// FileInfo describes a stored file.
type FileInfo struct {
	// Key identifies the file within its sink: a filename relative to the
	// disk root, an S3 object key, or a generated handle for memory.
	Key string

	// Path is the absolute filesystem path. Only the disk sink sets it.
	Path string

	// ContentType is the declared MIME type the file was stored with.
	ContentType string

	// Size is the stored size in bytes.
	Size int64

	// Content holds the accumulated bytes. Only the memory sink sets it.
	Content []byte
}
