package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/dmitrymomot/uploadkit"
	"github.com/dmitrymomot/uploadkit/pkg/admission"
)

// uploadResultKey is the context key for storing the processed result.
type uploadResultKey struct{}

// UploadConfig configures the upload middleware.
type UploadConfig struct {
	// ErrorHandler renders processing failures. The default writes a JSON
	// body with a 400 status (413 for size-limit rejections).
	ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// UploadOption configures UploadConfig.
type UploadOption func(*UploadConfig)

// WithUploadErrorHandler sets a custom error handler.
func WithUploadErrorHandler(fn func(w http.ResponseWriter, r *http.Request, err error)) UploadOption {
	return func(cfg *UploadConfig) {
		cfg.ErrorHandler = fn
	}
}

// Upload returns middleware that processes multipart requests through the
// given processor and stores the *uploadkit.Result in the request context.
// Non-multipart requests pass through untouched. Processing failures
// (malformed bodies, or any rejection when the processor aborts on reject)
// terminate the request via the error handler.
func Upload(p *uploadkit.Processor, opts ...UploadOption) func(http.Handler) http.Handler {
	cfg := &UploadConfig{
		ErrorHandler: defaultUploadErrorHandler,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMultipart(r) {
				next.ServeHTTP(w, r)
				return
			}

			res, err := p.Process(r.Context(), r)
			if err != nil {
				cfg.ErrorHandler(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), uploadResultKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ResultFromContext retrieves the processed upload result, if any.
func ResultFromContext(ctx context.Context) (*uploadkit.Result, bool) {
	res, ok := ctx.Value(uploadResultKey{}).(*uploadkit.Result)
	return res, ok
}

// isMultipart reports whether the request declares a multipart body.
func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// defaultUploadErrorHandler maps rejections to 4xx JSON responses.
// Rejections carry a stable reason code; parser faults do not.
func defaultUploadErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	body := map[string]string{"error": "invalid upload"}

	var rej *admission.RejectionError
	if errors.As(err, &rej) {
		if rej.Reason == admission.ReasonFileTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		body["error"] = rej.Message
		body["reason"] = rej.Reason
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
