package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploadkit/pkg/admission"
	"github.com/dmitrymomot/uploadkit/pkg/config"
	"github.com/dmitrymomot/uploadkit/pkg/sink"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Parallel()

	environ := []string{
		"UPLOAD_MAX_FILE_SIZE=5242880",
		"UPLOAD_MAX_FILES=10",
		"UPLOAD_ALLOWED_EXTENSIONS=.jpg,.png",
		"UPLOAD_ALLOWED_MIME_TYPES=image/jpeg,image/png",
		"UPLOAD_STORAGE=s3",
		"UPLOAD_S3_BUCKET=uploads",
		"UPLOAD_S3_ACCESS_KEY=key",
		"UPLOAD_S3_SECRET_KEY=secret",
		"UPLOAD_S3_PATH_STYLE=true",
	}

	cfg, err := config.Load(environ)
	require.NoError(t, err)

	limits := cfg.Limits()
	require.EqualValues(t, 5242880, limits.MaxFileSize)
	require.Equal(t, 10, limits.MaxFiles)

	filter := cfg.Filter()
	require.True(t, filter.AllowsExtension(".jpg"))
	require.False(t, filter.AllowsExtension(".exe"))
	require.True(t, filter.AllowsMIME("image/png"))

	s, err := cfg.Sink()
	require.NoError(t, err)
	require.IsType(t, &sink.S3{}, s)
}

func TestLoadEmptyEnvironmentDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	require.Equal(t, admission.Limits{}, cfg.Limits())

	s, err := cfg.Sink()
	require.NoError(t, err)
	require.IsType(t, &sink.Memory{}, s)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "upload.yaml")
	data := `
max_file_size: 1048576
max_files: 3
allowed_extensions: [".pdf"]
allowed_mime_types: ["application/pdf"]
storage: disk
disk_dir: ` + filepath.Join(t.TempDir(), "uploads") + `
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	require.EqualValues(t, 1048576, cfg.Limits().MaxFileSize)
	require.True(t, cfg.Filter().AllowsExtension(".pdf"))
	require.False(t, cfg.Filter().AllowsMIME("image/png"))

	s, err := cfg.Sink()
	require.NoError(t, err)
	require.IsType(t, &sink.Disk{}, s)
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := config.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestSinkUnknownStorage(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load([]string{"UPLOAD_STORAGE=ftp"})
	require.NoError(t, err)

	_, err = cfg.Sink()
	require.ErrorIs(t, err, config.ErrUnknownStorage)
}
