package uploader

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("content-"+name), 0644))
	}
}

func newTestClient(serverURL string) *Client {
	c := NewClient("secret", "acme", "defects", zap.NewNop())
	c.BaseURL = serverURL

	return c
}

func TestUploadBatchFiltersImages(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg", "b.PNG", "labels.txt", "c.tiff")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	var uploaded []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/dataset/defects/upload", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		assert.Equal(t, "train", r.URL.Query().Get("split"))

		uploaded = append(uploaded, r.URL.Query().Get("name"))
		fmt.Fprint(w, `{"success":true}`)
	}))
	defer srv.Close()

	stats, err := newTestClient(srv.URL).UploadBatch(context.Background(), dir, "train")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Success)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 3, stats.Total)
	assert.ElementsMatch(t, []string{"a.jpg", "b.PNG", "c.tiff"}, uploaded)
}

func TestUploadBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg", "b.jpg", "c.jpg")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") == "b.jpg" {
			http.Error(w, "image too large", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"success":true}`)
	}))
	defer srv.Close()

	stats, err := newTestClient(srv.URL).UploadBatch(context.Background(), dir, "valid")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Success)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 3, stats.Total)
}

func TestUploadBatchNoImages(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "readme.md")

	stats, err := newTestClient("http://unused.invalid").UploadBatch(context.Background(), dir, "test")
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
}

func TestUploadBatchMissingDir(t *testing.T) {
	_, err := newTestClient("http://unused.invalid").UploadBatch(context.Background(), "/does/not/exist", "train")
	assert.Error(t, err)
}

func TestProjectInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme/defects", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))

		fmt.Fprint(w, `{"project":{"name":"defects","type":"object-detection","images":420,"versions":3}}`)
	}))
	defer srv.Close()

	info, err := newTestClient(srv.URL).ProjectInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "defects", info.Name)
	assert.Equal(t, "object-detection", info.Type)
	assert.Equal(t, 420, info.Images)
	assert.Equal(t, 3, info.Version)
}

func TestDownload(t *testing.T) {
	archive := []byte("zip-bytes")

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/acme/defects/2/yolov8":
			fmt.Fprintf(w, `{"export":{"link":"%s/archive"}}`, srv.URL)
		case "/archive":
			_, _ = w.Write(archive)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	destDir := t.TempDir()
	dest, err := newTestClient(srv.URL).Download(context.Background(), 2, "yolov8", destDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(destDir, "dataset.zip"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, archive, data)
}

func TestDownloadNoLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"export":{}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Download(context.Background(), 1, "yolov8", t.TempDir())
	assert.ErrorContains(t, err, "no download link")
}
