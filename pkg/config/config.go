// Package config loads upload policy and sink settings from environment
// variables or a YAML file and turns them into ready-to-use values.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/uploadkit/pkg/admission"
	"github.com/dmitrymomot/uploadkit/pkg/sink"
)

// Storage backend names accepted in Config.Storage.
const (
	StorageMemory = "memory"
	StorageDisk   = "disk"
	StorageS3     = "s3"
)

// ErrUnknownStorage is returned by Sink for an unrecognized backend name.
var ErrUnknownStorage = errors.New("config: unknown storage backend")

// Config holds the startup configuration surface: limits, the file type
// allow-lists, and the storage backend selection. All values are optional;
// the zero value means an unrestricted, memory-backed setup.
type Config struct {
	MaxFieldNameSize  int   `env:"MAX_FIELD_NAME_SIZE" yaml:"max_field_name_size"`
	MaxFieldValueSize int64 `env:"MAX_FIELD_VALUE_SIZE" yaml:"max_field_value_size"`
	MaxFields         int   `env:"MAX_FIELDS" yaml:"max_fields"`
	MaxFileSize       int64 `env:"MAX_FILE_SIZE" yaml:"max_file_size"`
	MaxFiles          int   `env:"MAX_FILES" yaml:"max_files"`
	MaxParts          int   `env:"MAX_PARTS" yaml:"max_parts"`
	MaxHeaderPairs    int   `env:"MAX_HEADER_PAIRS" yaml:"max_header_pairs"`

	AllowedExtensions []string `env:"ALLOWED_EXTENSIONS" yaml:"allowed_extensions"`
	AllowedMIMETypes  []string `env:"ALLOWED_MIME_TYPES" yaml:"allowed_mime_types"`

	// Storage selects the sink backend: memory (default), disk, or s3.
	Storage string `env:"STORAGE" yaml:"storage"`
	DiskDir string `env:"DISK_DIR" yaml:"disk_dir"`
	S3      S3     `envPrefix:"S3_" yaml:"s3"`
}

// S3 holds the s3 backend settings.
type S3 struct {
	Bucket    string `env:"BUCKET" yaml:"bucket"`
	AccessKey string `env:"ACCESS_KEY" yaml:"access_key"`
	SecretKey string `env:"SECRET_KEY" yaml:"secret_key"`
	Endpoint  string `env:"ENDPOINT" yaml:"endpoint"`
	Region    string `env:"REGION" yaml:"region"`
	KeyPrefix string `env:"KEY_PREFIX" yaml:"key_prefix"`
	ACL       string `env:"ACL" yaml:"acl"`
	PathStyle bool   `env:"PATH_STYLE" yaml:"path_style"`
}

// Load parses the configuration from environment variables prefixed with
// UPLOAD_ (e.g. UPLOAD_MAX_FILE_SIZE, UPLOAD_S3_BUCKET).
func Load(environ []string) (*Config, error) {
	var cfg Config

	err := env.ParseWithOptions(&cfg, env.Options{
		Environment: env.ToMap(environ),
		Prefix:      "UPLOAD_",
	})
	if err != nil {
		return nil, fmt.Errorf("config: failed to parse environment: %w", err)
	}

	return &cfg, nil
}

// LoadFile parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Limits builds the admission limits from the configured bounds.
func (c *Config) Limits() admission.Limits {
	return admission.Limits{
		MaxFieldNameSize:  c.MaxFieldNameSize,
		MaxFieldValueSize: c.MaxFieldValueSize,
		MaxFields:         c.MaxFields,
		MaxFileSize:       c.MaxFileSize,
		MaxFiles:          c.MaxFiles,
		MaxParts:          c.MaxParts,
		MaxHeaderPairs:    c.MaxHeaderPairs,
	}
}

// Filter builds the admission filter from the configured allow-lists.
func (c *Config) Filter() admission.Filter {
	return admission.NewFilter(c.AllowedExtensions, c.AllowedMIMETypes)
}

// Sink builds the configured storage backend. An empty Storage value
// defaults to memory.
func (c *Config) Sink() (sink.Sink, error) {
	switch c.Storage {
	case "", StorageMemory:
		return sink.NewMemory(), nil
	case StorageDisk:
		return sink.NewDisk(c.DiskDir)
	case StorageS3:
		return sink.NewS3(sink.S3Config{
			Bucket:    c.S3.Bucket,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
			Endpoint:  c.S3.Endpoint,
			Region:    c.S3.Region,
			KeyPrefix: c.S3.KeyPrefix,
			ACL:       sink.ACL(c.S3.ACL),
			PathStyle: c.S3.PathStyle,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, c.Storage)
	}
}
