package sink

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// ACL represents access control levels for stored objects.
type ACL string

const (
	// ACLPrivate makes the object accessible only to the bucket owner.
	ACLPrivate ACL = "private"

	// ACLPublicRead makes the object publicly readable.
	ACLPublicRead ACL = "public-read"
)

// DefaultS3Region is used when no region is configured.
const DefaultS3Region = "us-east-1"

// S3Config holds S3-compatible object storage configuration.
type S3Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string

	// AccessKey is the AWS access key ID (required).
	AccessKey string

	// SecretKey is the AWS secret access key (required).
	SecretKey string

	// Endpoint is a custom S3 endpoint URL (optional, for MinIO or other
	// S3-compatible services).
	Endpoint string

	// Region is the AWS region (default: us-east-1).
	Region string

	// KeyPrefix is prepended to every generated object key (optional).
	KeyPrefix string

	// ACL is the canned ACL applied to uploaded objects (default: private).
	ACL ACL

	// PathStyle enables path-style URLs (required for MinIO).
	PathStyle bool
}

// applyDefaults fills in default values for empty config fields.
func (c *S3Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultS3Region
	}
	if c.ACL == "" {
		c.ACL = ACLPrivate
	}
}

// validate checks that required configuration fields are set.
func (c *S3Config) validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("%w: missing bucket", ErrInvalidConfig)
	}
	if c.AccessKey == "" {
		return fmt.Errorf("%w: missing access key", ErrInvalidConfig)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("%w: missing secret key", ErrInvalidConfig)
	}
	return nil
}

// S3 stores uploaded files in S3-compatible object storage. Each part is
// buffered in memory and sent as a single PutObject when finalized, so a
// discarded part never reaches the bucket.
type S3 struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3 creates an S3 sink with the given configuration.
func NewS3(cfg S3Config) (*S3, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := []func(*s3.Options){
		func(o *s3.Options) {
			o.Region = cfg.Region
			o.Credentials = credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)
		},
	}

	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		})
	}

	return &S3{client: s3.New(s3.Options{}, opts...), cfg: cfg}, nil
}

// Open implements Sink.
func (s *S3) Open(_ context.Context, originalName, contentType string) (Destination, error) {
	return &s3Destination{
		sink:        s,
		key:         s.buildKey(originalName),
		contentType: contentType,
	}, nil
}

// Remove implements Sink.
func (s *S3) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return wrapS3Error(err, ErrDeleteFailed)
	}
	return nil
}

// buildKey generates "{prefix}/{uuid}{ext}" keeping only the sanitized,
// lower-cased extension of the original name.
func (s *S3) buildKey(originalName string) string {
	ext := strings.ToLower(filepath.Ext(SafeFileName(originalName)))
	return path.Join(s.cfg.KeyPrefix, uuid.NewString()+ext)
}

// s3Destination buffers one part and uploads it on Close.
type s3Destination struct {
	buf         bytes.Buffer
	sink        *S3
	key         string
	contentType string
	done        bool
}

// Write implements io.Writer.
func (dst *s3Destination) Write(p []byte) (int, error) {
	if dst.done {
		return 0, ErrClosed
	}
	return dst.buf.Write(p)
}

// Close implements Destination.
func (dst *s3Destination) Close(ctx context.Context) (*FileInfo, error) {
	if dst.done {
		return nil, ErrClosed
	}
	dst.done = true

	var acl types.ObjectCannedACL
	switch dst.sink.cfg.ACL {
	case ACLPublicRead:
		acl = types.ObjectCannedACLPublicRead
	default:
		acl = types.ObjectCannedACLPrivate
	}

	size := int64(dst.buf.Len())
	input := &s3.PutObjectInput{
		Bucket:        aws.String(dst.sink.cfg.Bucket),
		Key:           aws.String(dst.key),
		Body:          bytes.NewReader(dst.buf.Bytes()),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(dst.contentType),
		ACL:           acl,
	}

	if _, err := dst.sink.client.PutObject(ctx, input); err != nil {
		return nil, wrapS3Error(err, ErrUploadFailed)
	}

	return &FileInfo{
		Key:         dst.key,
		ContentType: dst.contentType,
		Size:        size,
	}, nil
}

// Discard implements Destination. Nothing has been uploaded before Close,
// so dropping the buffer is enough.
func (dst *s3Destination) Discard(_ context.Context) error {
	dst.done = true
	dst.buf.Reset()
	return nil
}
