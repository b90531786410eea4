package admission

import (
	"fmt"
	"io"
)

// SizeGuard wraps a destination writer and enforces a byte budget at every
// chunk boundary. A file of exactly limit bytes passes; the first chunk
// that would go one byte over fails with a file_too_large rejection and is
// not written, so io.Copy stops consuming the stream at that point and the
// caller can discard the partial destination.
type SizeGuard struct {
	dst     io.Writer
	field   string
	limit   int64 // zero means unbounded
	written int64
}

// NewSizeGuard returns a guard writing to dst with the given byte limit.
// A limit of zero disables the check.
func NewSizeGuard(dst io.Writer, limit int64, field string) *SizeGuard {
	return &SizeGuard{dst: dst, limit: limit, field: field}
}

// Write implements io.Writer.
func (g *SizeGuard) Write(p []byte) (int, error) {
	if g.limit > 0 && g.written+int64(len(p)) > g.limit {
		return 0, &RejectionError{
			Field:   g.field,
			Reason:  ReasonFileTooLarge,
			Message: fmt.Sprintf("file exceeds limit of %d bytes", g.limit),
			Details: map[string]any{"limit": g.limit},
		}
	}

	n, err := g.dst.Write(p)
	g.written += int64(n)
	return n, err
}

// Written returns the number of bytes passed through so far.
func (g *SizeGuard) Written() int64 {
	return g.written
}
