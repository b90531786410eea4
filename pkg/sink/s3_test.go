package sink_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploadkit/pkg/sink"
)

func validS3Config() sink.S3Config {
	return sink.S3Config{
		Bucket:    "test-bucket",
		AccessKey: "test-access-key",
		SecretKey: "test-secret-key",
	}
}

func TestNewS3(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		s, err := sink.NewS3(validS3Config())
		require.NoError(t, err)
		require.NotNil(t, s)
	})

	t.Run("custom endpoint", func(t *testing.T) {
		t.Parallel()

		cfg := validS3Config()
		cfg.Endpoint = "http://localhost:9000"
		cfg.PathStyle = true

		s, err := sink.NewS3(cfg)
		require.NoError(t, err)
		require.NotNil(t, s)
	})

	tests := []struct {
		name   string
		mutate func(*sink.S3Config)
	}{
		{"missing bucket", func(c *sink.S3Config) { c.Bucket = "" }},
		{"missing access key", func(c *sink.S3Config) { c.AccessKey = "" }},
		{"missing secret key", func(c *sink.S3Config) { c.SecretKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validS3Config()
			tt.mutate(&cfg)

			_, err := sink.NewS3(cfg)
			require.ErrorIs(t, err, sink.ErrInvalidConfig)
		})
	}
}

func TestS3DestinationLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := sink.NewS3(validS3Config())
	require.NoError(t, err)

	// Nothing is uploaded before Close, so Open and Discard need no network.
	dst, err := s.Open(ctx, "report.PDF", "application/pdf")
	require.NoError(t, err)

	_, err = dst.Write([]byte("pdf bytes"))
	require.NoError(t, err)

	require.NoError(t, dst.Discard(ctx))

	_, err = dst.Write([]byte("late"))
	require.ErrorIs(t, err, sink.ErrClosed)
	_, err = dst.Close(ctx)
	require.ErrorIs(t, err, sink.ErrClosed)
}
