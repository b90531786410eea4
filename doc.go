// Package uploadkit handles multipart file uploads: a pure admission gate
// decides per part whether to accept or reject, and pluggable sinks decide
// where accepted bytes go (disk, memory, or S3-compatible storage).
//
// The design separates three concerns:
//
//   - [github.com/dmitrymomot/uploadkit/pkg/admission] holds the policy:
//     file type allow-lists, size and count limits, per-request counters.
//   - [github.com/dmitrymomot/uploadkit/pkg/sink] holds the destinations.
//   - [Processor] in this package wires the stdlib multipart parser
//     through both, streaming bytes and enforcing limits mid-stream.
//
// # Quick Start
//
// Build a processor once at startup and reuse it across requests:
//
//	p := uploadkit.New(
//	    uploadkit.WithFilter(admission.NewFilter(
//	        []string{".jpg", ".png", ".pdf"},
//	        []string{"image/jpeg", "image/png", "application/pdf"},
//	    )),
//	    uploadkit.WithLimits(admission.Limits{
//	        MaxFileSize: 10 << 20,
//	        MaxFiles:    5,
//	    }),
//	    uploadkit.WithSink(diskSink),
//	    uploadkit.WithLogger(log),
//	)
//
// In a handler:
//
//	res, err := p.Process(r.Context(), r)
//	if err != nil {
//	    http.Error(w, "bad request", http.StatusBadRequest)
//	    return
//	}
//	for _, f := range res.Files {
//	    // f.Info.Key, f.Info.Path, f.Info.Size ...
//	}
//	for _, rej := range res.Rejections {
//	    // rej.Reason is a stable code like "file_too_large"
//	}
//
// By default a rejected part is terminal for that part only and the rest
// of the request still goes through; [WithAbortOnReject] turns the first
// rejection into a request-level failure and removes everything already
// stored.
//
// For drop-in HTTP integration see the middlewares package.
package uploadkit
