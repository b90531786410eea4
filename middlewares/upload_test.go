package middlewares_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uploadkit"
	"github.com/dmitrymomot/uploadkit/middlewares"
	"github.com/dmitrymomot/uploadkit/pkg/admission"
)

func newProcessor(opts ...uploadkit.Option) *uploadkit.Processor {
	base := []uploadkit.Option{
		uploadkit.WithFilter(admission.NewFilter(
			[]string{".jpg"},
			[]string{"image/jpeg"},
		)),
	}
	return uploadkit.New(append(base, opts...)...)
}

func multipartBody(t *testing.T, field, fileName, contentType, data string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, fileName))
	h.Set("Content-Type", contentType)
	pw, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = io.Copy(pw, strings.NewReader(data))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("stores result in context", func(t *testing.T) {
		t.Parallel()

		r := chi.NewRouter()
		r.With(middlewares.Upload(newProcessor())).Post("/upload", func(w http.ResponseWriter, r *http.Request) {
			res, ok := middlewares.ResultFromContext(r.Context())
			require.True(t, ok)
			require.Len(t, res.Files, 1)
			fmt.Fprint(w, res.Files[0].OriginalName)
		})

		body, contentType := multipartBody(t, "photo", "beach.jpg", "image/jpeg", "jpeg bytes")
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "beach.jpg", rec.Body.String())
	})

	t.Run("non-multipart passes through", func(t *testing.T) {
		t.Parallel()

		r := chi.NewRouter()
		r.With(middlewares.Upload(newProcessor())).Post("/upload", func(w http.ResponseWriter, r *http.Request) {
			_, ok := middlewares.ResultFromContext(r.Context())
			require.False(t, ok)
			w.WriteHeader(http.StatusNoContent)
		})

		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{"a":1}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("abort mode rejection returns 400 with reason", func(t *testing.T) {
		t.Parallel()

		p := newProcessor(uploadkit.WithAbortOnReject())
		r := chi.NewRouter()
		r.With(middlewares.Upload(p)).Post("/upload", func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run")
		})

		body, contentType := multipartBody(t, "doc", "setup.exe", "application/octet-stream", "MZ")
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, admission.ReasonUnsupportedFileType, resp["reason"])
	})

	t.Run("oversized file maps to 413", func(t *testing.T) {
		t.Parallel()

		p := newProcessor(
			uploadkit.WithLimits(admission.Limits{MaxFileSize: 4}),
			uploadkit.WithAbortOnReject(),
		)
		r := chi.NewRouter()
		r.With(middlewares.Upload(p)).Post("/upload", func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run")
		})

		body, contentType := multipartBody(t, "photo", "beach.jpg", "image/jpeg", "way too big")
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()

		p := newProcessor(uploadkit.WithAbortOnReject())
		mw := middlewares.Upload(p, middlewares.WithUploadErrorHandler(
			func(w http.ResponseWriter, r *http.Request, err error) {
				w.WriteHeader(http.StatusTeapot)
			},
		))

		r := chi.NewRouter()
		r.With(mw).Post("/upload", func(w http.ResponseWriter, r *http.Request) {})

		body, contentType := multipartBody(t, "doc", "setup.exe", "application/octet-stream", "MZ")
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusTeapot, rec.Code)
	})
}
