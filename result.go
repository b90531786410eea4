package uploadkit

import (
	"context"
	"errors"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/uploadkit/pkg/sink"
)

// UploadedFile describes one accepted and stored file part.
type UploadedFile struct {
	Info         *sink.FileInfo // Storage metadata; Content is set for memory sinks
	FieldName    string         // Form field the file arrived under
	OriginalName string         // Client-declared filename, informational only
}

// Rejection records one part refused during processing.
type Rejection struct {
	FieldName string
	FileName  string // Empty for non-file parts
	Reason    string
	Message   string
}

// Result collects the outcome of processing one multipart request.
type Result struct {
	Values     url.Values     // Accepted non-file fields
	Files      []UploadedFile // Accepted and stored files
	Rejections []Rejection    // Parts refused by policy
	sink       sink.Sink
}

// File returns the first accepted file for the given field.
func (r *Result) File(field string) (UploadedFile, bool) {
	for _, f := range r.Files {
		if f.FieldName == field {
			return f, true
		}
	}
	return UploadedFile{}, false
}

// Value returns the first accepted value for the given field.
func (r *Result) Value(field string) string {
	return r.Values.Get(field)
}

// Cleanup removes every stored file of this result from the sink. Files
// are independent, so removals run concurrently. Already-removed files
// are not an error. Use this when the handler decides the request failed
// after processing succeeded.
func (r *Result) Cleanup(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, f := range r.Files {
		g.Go(func() error {
			err := r.sink.Remove(ctx, f.Info.Key)
			if errors.Is(err, sink.ErrNotFound) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}
