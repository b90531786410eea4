package sink

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Sentinel errors for sink operations.
var (
	ErrInvalidConfig = errors.New("sink: invalid configuration")
	ErrClosed        = errors.New("sink: destination already finalized")
	ErrNotFound      = errors.New("sink: file not found")
	ErrAccessDenied  = errors.New("sink: access denied")
	ErrUploadFailed  = errors.New("sink: upload failed")
	ErrDeleteFailed  = errors.New("sink: delete failed")
)

// wrapS3Error wraps S3 errors with appropriate sentinel errors.
// Uses %v (not %w) for the original error to normalize error types -
// callers should use errors.Is() with sentinel errors, not errors.As()
// for AWS types.
func wrapS3Error(err error, fallback error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	var notFound *types.NoSuchKey
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return fmt.Errorf("%w: %v", fallback, err)
}
