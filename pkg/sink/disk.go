package sink

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Disk stores uploaded files on the local filesystem under a root
// directory. Keys are generated per file; the default is a UUID with the
// sanitized original extension, so client filenames never become paths.
type Disk struct {
	root    string
	keyFunc func(originalName string) string
}

// DiskOption configures a Disk sink.
type DiskOption func(*Disk)

// WithDiskKeyFunc replaces the default key generator. The returned key is
// interpreted relative to the root and may contain subdirectories; it must
// not escape the root.
func WithDiskKeyFunc(fn func(originalName string) string) DiskOption {
	return func(d *Disk) {
		d.keyFunc = fn
	}
}

// NewDisk creates a disk sink rooted at dir, creating it if needed.
func NewDisk(dir string, opts ...DiskOption) (*Disk, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty root directory", ErrInvalidConfig)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("sink: failed to create root directory: %w", err)
	}

	d := &Disk{root: abs, keyFunc: defaultDiskKey}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// defaultDiskKey generates "{uuid}{ext}" keeping only the sanitized,
// lower-cased extension of the original name.
func defaultDiskKey(originalName string) string {
	ext := strings.ToLower(filepath.Ext(SafeFileName(originalName)))
	return uuid.NewString() + ext
}

// Open implements Sink.
func (d *Disk) Open(_ context.Context, originalName, contentType string) (Destination, error) {
	key := d.keyFunc(originalName)

	path, err := d.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sink: failed to create directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("sink: failed to create file: %w", err)
	}

	return &diskDestination{f: f, key: key, path: path, contentType: contentType}, nil
}

// Remove implements Sink.
func (d *Disk) Remove(_ context.Context, key string) error {
	path, err := d.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

// Root returns the absolute root directory of the sink.
func (d *Disk) Root() string {
	return d.root
}

// resolve joins key with the root and rejects keys escaping it.
func (d *Disk) resolve(key string) (string, error) {
	path := filepath.Join(d.root, key)
	if path != d.root && !strings.HasPrefix(path, d.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: key escapes root: %s", ErrInvalidConfig, key)
	}
	if path == d.root {
		return "", fmt.Errorf("%w: empty key", ErrInvalidConfig)
	}
	return path, nil
}

// diskDestination streams one part to a file.
type diskDestination struct {
	f           *os.File
	key         string
	path        string
	contentType string
	size        int64
	done        bool
}

// Write implements io.Writer.
func (dst *diskDestination) Write(p []byte) (int, error) {
	if dst.done {
		return 0, ErrClosed
	}
	n, err := dst.f.Write(p)
	dst.size += int64(n)
	return n, err
}

// Close implements Destination.
func (dst *diskDestination) Close(_ context.Context) (*FileInfo, error) {
	if dst.done {
		return nil, ErrClosed
	}
	dst.done = true

	if err := dst.f.Close(); err != nil {
		return nil, fmt.Errorf("sink: failed to close file: %w", err)
	}

	return &FileInfo{
		Key:         dst.key,
		Path:        dst.path,
		ContentType: dst.contentType,
		Size:        dst.size,
	}, nil
}

// Discard implements Destination. Partial writes are removed from disk.
func (dst *diskDestination) Discard(_ context.Context) error {
	if dst.done {
		return nil
	}
	dst.done = true

	return errors.Join(dst.f.Close(), os.Remove(dst.path))
}
