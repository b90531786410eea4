package uploadkit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/dmitrymomot/uploadkit/pkg/admission"
	"github.com/dmitrymomot/uploadkit/pkg/logger"
	"github.com/dmitrymomot/uploadkit/pkg/sink"
)

// Sentinel errors for request processing. These are faults of the request
// itself, distinct from per-part rejections carried in Result.Rejections.
var (
	ErrNotMultipart  = errors.New("uploadkit: request is not multipart")
	ErrMalformedBody = errors.New("uploadkit: malformed multipart body")
)

// Processor drives a multipart request through the admission gate and
// streams accepted file parts into a sink. It is immutable after New and
// safe for concurrent use; each Process call owns its own session state.
type Processor struct {
	filter        admission.Filter
	limits        admission.Limits
	sink          sink.Sink
	log           *slog.Logger
	abortOnReject bool
}

// New creates a Processor. Without options it accepts any file type, has
// no limits, buffers files in memory, and logs nothing.
func New(opts ...Option) *Processor {
	p := &Processor{
		sink: sink.NewMemory(),
		log:  logger.NewNope(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process walks the request's multipart parts in arrival order, evaluating
// each against the configured policy. Accepted file bytes are streamed into
// the sink; rejected parts are recorded in Result.Rejections and processing
// continues, unless WithAbortOnReject was set, in which case the first
// rejection discards everything stored so far and is returned as the error
// (match it with errors.As against *admission.RejectionError).
//
// A non-nil error means the request as a whole failed; any files already
// stored have been removed.
func (p *Processor) Process(ctx context.Context, r *http.Request) (*Result, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotMultipart, err)
	}

	session := &admission.Session{}
	res := &Result{Values: url.Values{}, sink: p.sink}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = res.Cleanup(ctx)
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}

		fileName := part.FileName()
		fieldName := part.FormName()

		if fileName == "" {
			err = p.processField(part, session, res)
		} else {
			err = p.processFile(ctx, part, session, res)
		}
		_ = part.Close()

		if err == nil {
			continue
		}

		var rej *admission.RejectionError
		if errors.As(err, &rej) {
			p.log.InfoContext(ctx, "part rejected",
				slog.String("field", rej.Field),
				slog.String("file", fileName),
				slog.String("reason", rej.Reason),
			)
			if p.abortOnReject {
				_ = res.Cleanup(ctx)
				return nil, err
			}
			res.Rejections = append(res.Rejections, Rejection{
				FieldName: fieldName,
				FileName:  fileName,
				Reason:    rej.Reason,
				Message:   rej.Message,
			})
			continue
		}

		_ = res.Cleanup(ctx)
		return nil, err
	}

	return res, nil
}

// processField reads one non-file field and admits it. Reading is capped
// one byte past the configured value limit so an oversized value is
// rejected without buffering the full part.
func (p *Processor) processField(part *multipart.Part, s *admission.Session, res *Result) error {
	name := part.FormName()

	var reader io.Reader = part
	if p.limits.MaxFieldValueSize > 0 {
		reader = io.LimitReader(part, p.limits.MaxFieldValueSize+1)
	}
	value, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	if err := admission.EvaluateField(name, int64(len(value)), p.limits, s); err != nil {
		return err
	}

	res.Values.Add(name, string(value))
	return nil
}

// processFile admits one file part and streams its bytes into the sink
// behind a size guard. On a mid-stream violation the destination is
// discarded, so partial writes never survive.
func (p *Processor) processFile(ctx context.Context, part *multipart.Part, s *admission.Session, res *Result) error {
	meta := admission.Part{
		FieldName:   part.FormName(),
		FileName:    part.FileName(),
		MIMEType:    part.Header.Get("Content-Type"),
		HeaderPairs: headerPairs(part.Header),
	}

	if err := admission.Evaluate(meta, p.filter, p.limits, s); err != nil {
		return err
	}

	dst, err := p.sink.Open(ctx, meta.FileName, meta.MIMEType)
	if err != nil {
		return fmt.Errorf("uploadkit: failed to open destination: %w", err)
	}

	guard := admission.NewSizeGuard(dst, p.limits.MaxFileSize, meta.FieldName)
	if _, err := io.Copy(guard, part); err != nil {
		if discardErr := dst.Discard(ctx); discardErr != nil {
			p.log.ErrorContext(ctx, "failed to discard partial upload",
				slog.String("field", meta.FieldName),
				slog.Any("error", discardErr),
			)
		}
		var rej *admission.RejectionError
		if errors.As(err, &rej) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	info, err := dst.Close(ctx)
	if err != nil {
		return err
	}

	p.log.DebugContext(ctx, "file accepted",
		slog.String("field", meta.FieldName),
		slog.String("file", meta.FileName),
		slog.String("key", info.Key),
		slog.Int64("size", info.Size),
	)

	res.Files = append(res.Files, UploadedFile{
		FieldName:    meta.FieldName,
		OriginalName: meta.FileName,
		Info:         info,
	})
	return nil
}

// headerPairs counts key/value pairs across a part's headers.
func headerPairs(h textproto.MIMEHeader) int {
	n := 0
	for _, values := range h {
		n += len(values)
	}
	return n
}
