package uploader

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mygallery-go/internal/config"
)

func writeCaptureFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "IMG001.jpg")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newIngestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		payload, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "jpeg-bytes", string(payload))

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestUploadSuccess(t *testing.T) {
	srv := newIngestServer(t, http.StatusOK, `{"file": "file-1700000000000-42.jpg"}`)
	defer srv.Close()

	client := NewClient(config.UploaderConfig{ServerURL: srv.URL, Timeout: 5 * time.Second})
	stored, err := client.Upload(context.Background(), writeCaptureFile(t, "jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "file-1700000000000-42.jpg", stored)
}

func TestUploadNon2xx(t *testing.T) {
	srv := newIngestServer(t, http.StatusBadRequest, `{"message": "No file uploaded"}`)
	defer srv.Close()

	client := NewClient(config.UploaderConfig{ServerURL: srv.URL, Timeout: 5 * time.Second})
	stored, err := client.Upload(context.Background(), writeCaptureFile(t, "jpeg-bytes"))
	require.ErrorIs(t, err, ErrUploadFailed)
	assert.Empty(t, stored)
}

func TestUploadMissingFileField(t *testing.T) {
	srv := newIngestServer(t, http.StatusOK, `{}`)
	defer srv.Close()

	client := NewClient(config.UploaderConfig{ServerURL: srv.URL, Timeout: 5 * time.Second})
	_, err := client.Upload(context.Background(), writeCaptureFile(t, "jpeg-bytes"))
	require.ErrorIs(t, err, ErrUploadFailed)
}

func TestUploadMalformedResponse(t *testing.T) {
	srv := newIngestServer(t, http.StatusOK, `{"file": broken`)
	defer srv.Close()

	client := NewClient(config.UploaderConfig{ServerURL: srv.URL, Timeout: 5 * time.Second})
	_, err := client.Upload(context.Background(), writeCaptureFile(t, "jpeg-bytes"))
	require.ErrorIs(t, err, ErrUploadFailed)
}

func TestUploadTransportFailure(t *testing.T) {
	// 端口已关闭的地址
	client := NewClient(config.UploaderConfig{ServerURL: "http://127.0.0.1:1", Timeout: time.Second})
	_, err := client.Upload(context.Background(), writeCaptureFile(t, "jpeg-bytes"))
	require.ErrorIs(t, err, ErrUploadFailed)
}

func TestUploadSourceFileMissing(t *testing.T) {
	client := NewClient(config.UploaderConfig{ServerURL: "http://127.0.0.1:1", Timeout: time.Second})
	_, err := client.Upload(context.Background(), filepath.Join(t.TempDir(), "absent.jpg"))
	require.ErrorIs(t, err, ErrUploadFailed)
}
