package sink_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploadkit/pkg/sink"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := sink.NewMemory()

	dst, err := m.Open(ctx, "notes.txt", "text/plain")
	require.NoError(t, err)

	_, err = io.Copy(dst, strings.NewReader("hello"))
	require.NoError(t, err)

	info, err := dst.Close(ctx)
	require.NoError(t, err)
	require.Equal(t, "text/plain", info.ContentType)
	require.EqualValues(t, 5, info.Size)
	require.Equal(t, []byte("hello"), info.Content)
	require.NotEmpty(t, info.Key)
	require.Empty(t, info.Path)

	_, err = dst.Close(ctx)
	require.ErrorIs(t, err, sink.ErrClosed)

	require.NoError(t, m.Remove(ctx, info.Key))
}

func TestMemoryDestinationsAreIndependent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := sink.NewMemory()

	a, err := m.Open(ctx, "a.txt", "text/plain")
	require.NoError(t, err)
	b, err := m.Open(ctx, "b.txt", "text/plain")
	require.NoError(t, err)

	_, err = a.Write([]byte("aaa"))
	require.NoError(t, err)
	_, err = b.Write([]byte("b"))
	require.NoError(t, err)

	infoA, err := a.Close(ctx)
	require.NoError(t, err)
	infoB, err := b.Close(ctx)
	require.NoError(t, err)

	require.Equal(t, []byte("aaa"), infoA.Content)
	require.Equal(t, []byte("b"), infoB.Content)
	require.NotEqual(t, infoA.Key, infoB.Key)
}

func TestMemoryDiscard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := sink.NewMemory()

	dst, err := m.Open(ctx, "a.txt", "text/plain")
	require.NoError(t, err)
	_, err = dst.Write([]byte("data"))
	require.NoError(t, err)

	require.NoError(t, dst.Discard(ctx))

	_, err = dst.Write([]byte("more"))
	require.ErrorIs(t, err, sink.ErrClosed)
	_, err = dst.Close(ctx)
	require.ErrorIs(t, err, sink.ErrClosed)
}

func TestSafeFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "photo.jpg", "photo.jpg"},
		{"unix path stripped", "/etc/passwd", "passwd"},
		{"windows path stripped", `C:\Users\me\cv.pdf`, "cv.pdf"},
		{"traversal stripped", "../../secret.txt", "secret.txt"},
		{"control chars dropped", "a\x00b.png", "ab.png"},
		{"empty becomes placeholder", "", "file"},
		{"dot becomes placeholder", ".", "file"},
		{"dotdot becomes placeholder", "..", "file"},
		{"whitespace trimmed", "  img.gif  ", "img.gif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, sink.SafeFileName(tt.in))
		})
	}
}
