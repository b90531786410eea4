package uploadkit

import (
	"log/slog"

	"github.com/dmitrymomot/uploadkit/pkg/admission"
	"github.com/dmitrymomot/uploadkit/pkg/sink"
)

// Option configures a Processor.
type Option func(*Processor)

// WithFilter sets the file type allow-lists.
func WithFilter(f admission.Filter) Option {
	return func(p *Processor) {
		p.filter = f
	}
}

// WithLimits sets the per-request upload limits.
func WithLimits(l admission.Limits) Option {
	return func(p *Processor) {
		p.limits = l
	}
}

// WithSink sets the destination for accepted file parts.
// Default is an in-memory sink.
func WithSink(s sink.Sink) Option {
	return func(p *Processor) {
		if s != nil {
			p.sink = s
		}
	}
}

// WithLogger sets the logger. Default discards all output.
func WithLogger(log *slog.Logger) Option {
	return func(p *Processor) {
		if log != nil {
			p.log = log
		}
	}
}

// WithAbortOnReject makes the first rejected part fail the whole request:
// Process returns the rejection as its error and removes every file stored
// for the request. Without it, rejections are collected per part and the
// remaining parts are still processed.
func WithAbortOnReject() Option {
	return func(p *Processor) {
		p.abortOnReject = true
	}
}
