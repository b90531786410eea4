package admission

import (
	"fmt"
	"strings"
)

// Part holds the client-declared metadata of one file part, as reported by
// the multipart parser before any bytes are consumed. Everything here is
// forgeable by the client; the gate treats it as untrusted input.
type Part struct {
	FieldName   string // Form field the part arrived under
	FileName    string // Declared original filename
	MIMEType    string // Declared Content-Type header value
	SizeSoFar   int64  // Bytes consumed for this part so far
	HeaderPairs int    // Header key/value pairs present on the part
}

// Limits bounds a single upload request. A zero field means unbounded.
// Construct once at startup and share freely across concurrent requests;
// the gate only reads it.
type Limits struct {
	MaxFieldNameSize  int   // Longest accepted form field name, in bytes
	MaxFieldValueSize int64 // Largest accepted non-file field value, in bytes
	MaxFields         int   // Non-file fields accepted per request
	MaxFileSize       int64 // Largest accepted file, in bytes
	MaxFiles          int   // Files accepted per request
	MaxParts          int   // Total parts (fields + files) accepted per request
	MaxHeaderPairs    int   // Header pairs accepted per part
}

// Filter holds the allow-sets for file admission. The zero value allows
// every extension and every MIME type; use NewFilter to restrict.
// Immutable after construction and safe for concurrent use.
type Filter struct {
	extensions map[string]struct{}
	mimeTypes  map[string]struct{}
}

// NewFilter builds a Filter from extension and MIME type allow-lists.
// Entries are lower-cased; extensions get a leading "." if missing, so
// both "png" and ".png" are accepted spellings. An empty list leaves the
// corresponding check unrestricted.
func NewFilter(extensions, mimeTypes []string) Filter {
	f := Filter{}

	if len(extensions) > 0 {
		f.extensions = make(map[string]struct{}, len(extensions))
		for _, ext := range extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			f.extensions[ext] = struct{}{}
		}
	}

	if len(mimeTypes) > 0 {
		f.mimeTypes = make(map[string]struct{}, len(mimeTypes))
		for _, mt := range mimeTypes {
			mt = strings.ToLower(strings.TrimSpace(mt))
			if mt == "" {
				continue
			}
			f.mimeTypes[mt] = struct{}{}
		}
	}

	return f
}

// AllowsExtension reports whether the already-extracted, lower-cased
// extension is in the allow-set. An unrestricted filter allows everything.
func (f Filter) AllowsExtension(ext string) bool {
	if len(f.extensions) == 0 {
		return true
	}
	_, ok := f.extensions[ext]
	return ok
}

// AllowsMIME reports whether the declared MIME type is in the allow-set.
// The lookup is verbatim and case-sensitive: MIME registries define types
// in lower case and the construction invariant lower-cases every entry, so
// a client declaring "Image/JPEG" does not match.
func (f Filter) AllowsMIME(mimeType string) bool {
	if len(f.mimeTypes) == 0 {
		return true
	}
	_, ok := f.mimeTypes[mimeType]
	return ok
}

// Session tracks how many parts, files, and fields one in-flight request
// has had accepted so far. Each request owns exactly one Session; it must
// never be shared across concurrent requests, and parts of one request
// must be evaluated in arrival order.
type Session struct {
	PartsSeen  int
	FilesSeen  int
	FieldsSeen int
}

// Evaluate decides whether one file part may be accepted. It returns nil
// on acceptance (after incrementing the session's part and file counters)
// or a *RejectionError naming the reason.
//
// Budget limits are checked first, so an over-quota part is reported as
// such regardless of its own validity. The type check then requires the
// declared MIME type AND the filename extension to both be allow-listed;
// each signal alone is client-forgeable. No content sniffing happens here.
// A part with no filename is unsupported by definition.
func Evaluate(part Part, filter Filter, limits Limits, s *Session) error {
	if limits.MaxParts > 0 && s.PartsSeen >= limits.MaxParts {
		return &RejectionError{
			Field:   part.FieldName,
			Reason:  ReasonTooManyParts,
			Message: fmt.Sprintf("part limit of %d reached", limits.MaxParts),
			Details: map[string]any{"limit": limits.MaxParts},
		}
	}
	if limits.MaxFiles > 0 && s.FilesSeen >= limits.MaxFiles {
		return &RejectionError{
			Field:   part.FieldName,
			Reason:  ReasonTooManyFiles,
			Message: fmt.Sprintf("file limit of %d reached", limits.MaxFiles),
			Details: map[string]any{"limit": limits.MaxFiles},
		}
	}
	if limits.MaxHeaderPairs > 0 && part.HeaderPairs > limits.MaxHeaderPairs {
		return &RejectionError{
			Field:   part.FieldName,
			Reason:  ReasonTooManyHeaderPairs,
			Message: fmt.Sprintf("part has %d header pairs, limit is %d", part.HeaderPairs, limits.MaxHeaderPairs),
			Details: map[string]any{"limit": limits.MaxHeaderPairs, "got": part.HeaderPairs},
		}
	}
	if limits.MaxFileSize > 0 && part.SizeSoFar > limits.MaxFileSize {
		return &RejectionError{
			Field:   part.FieldName,
			Reason:  ReasonFileTooLarge,
			Message: fmt.Sprintf("file size %d exceeds limit of %d bytes", part.SizeSoFar, limits.MaxFileSize),
			Details: map[string]any{"limit": limits.MaxFileSize, "got": part.SizeSoFar},
		}
	}

	ext := Extension(part.FileName)
	if part.FileName == "" || !filter.AllowsExtension(ext) || !filter.AllowsMIME(part.MIMEType) {
		return &RejectionError{
			Field:   part.FieldName,
			Reason:  ReasonUnsupportedFileType,
			Message: fmt.Sprintf("file type %q (%s) is not allowed", ext, part.MIMEType),
			Details: map[string]any{"extension": ext, "mime_type": part.MIMEType},
		}
	}

	s.PartsSeen++
	s.FilesSeen++
	return nil
}

// EvaluateField decides whether one non-file field part may be accepted.
// valueSize is the byte length of the field value as read by the parser.
// On acceptance the session's part and field counters are incremented.
func EvaluateField(name string, valueSize int64, limits Limits, s *Session) error {
	if limits.MaxParts > 0 && s.PartsSeen >= limits.MaxParts {
		return &RejectionError{
			Field:   name,
			Reason:  ReasonTooManyParts,
			Message: fmt.Sprintf("part limit of %d reached", limits.MaxParts),
			Details: map[string]any{"limit": limits.MaxParts},
		}
	}
	if limits.MaxFields > 0 && s.FieldsSeen >= limits.MaxFields {
		return &RejectionError{
			Field:   name,
			Reason:  ReasonTooManyFields,
			Message: fmt.Sprintf("field limit of %d reached", limits.MaxFields),
			Details: map[string]any{"limit": limits.MaxFields},
		}
	}
	if limits.MaxFieldNameSize > 0 && len(name) > limits.MaxFieldNameSize {
		return &RejectionError{
			Field:   name,
			Reason:  ReasonFieldNameTooLong,
			Message: fmt.Sprintf("field name is %d bytes, limit is %d", len(name), limits.MaxFieldNameSize),
			Details: map[string]any{"limit": limits.MaxFieldNameSize, "got": len(name)},
		}
	}
	if limits.MaxFieldValueSize > 0 && valueSize > limits.MaxFieldValueSize {
		return &RejectionError{
			Field:   name,
			Reason:  ReasonFieldTooLarge,
			Message: fmt.Sprintf("field value is %d bytes, limit is %d", valueSize, limits.MaxFieldValueSize),
			Details: map[string]any{"limit": limits.MaxFieldValueSize, "got": valueSize},
		}
	}

	s.PartsSeen++
	s.FieldsSeen++
	return nil
}

// Extension extracts the lower-cased filename extension: the substring
// from the last "." to the end, or "" when no dot is present. Declared
// filenames may contain path separators, so filepath.Ext is deliberately
// not used here.
func Extension(fileName string) string {
	i := strings.LastIndex(fileName, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(fileName[i:])
}
