// Package admission decides whether incoming multipart upload parts may be
// accepted, before any of their bytes are persisted.
//
// The gate is pure policy: it reads an immutable [Filter] and [Limits],
// mutates only the caller-owned per-request [Session], and never touches
// storage. Where accepted bytes go is the caller's concern.
//
// # Usage
//
// Construct the policy once at startup and share it across requests:
//
//	filter := admission.NewFilter(
//	    []string{".jpg", ".png"},
//	    []string{"image/jpeg", "image/png"},
//	)
//	limits := admission.Limits{
//	    MaxFileSize: 5 << 20,
//	    MaxFiles:    10,
//	}
//
// Per request, create one Session and evaluate parts in arrival order:
//
//	var s admission.Session
//	if err := admission.Evaluate(part, filter, limits, &s); err != nil {
//	    var rej *admission.RejectionError
//	    if errors.As(err, &rej) {
//	        // expected outcome: surface rej.Reason to the client
//	    }
//	}
//
// # Streaming size enforcement
//
// When the parser reports file bytes incrementally, wrap the destination
// in a [SizeGuard] so an oversized file is cut off mid-stream instead of
// being buffered to completion:
//
//	guard := admission.NewSizeGuard(dst, limits.MaxFileSize, part.FieldName)
//	if _, err := io.Copy(guard, src); err != nil {
//	    // *RejectionError with reason file_too_large once the budget is hit
//	}
//
// The file type check requires the declared MIME type and the filename
// extension to agree with the allow-lists; both signals are client-supplied
// and the package deliberately performs no content sniffing.
package admission
