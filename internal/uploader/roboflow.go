package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"mlsync/internal/model"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.roboflow.com"

// imageExtensions are the file types eligible for dataset upload.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff"}

// Client uploads images into a versioned dataset project, one split at
// a time, and fetches dataset exports back. It is the orchestrator's
// upload sink.
type Client struct {
	// BaseURL is overridable for tests.
	BaseURL string

	apiKey    string
	workspace string
	project   string
	http      *http.Client
	log       *zap.Logger
}

func NewClient(apiKey, workspace, project string, log *zap.Logger) *Client {
	return &Client{
		BaseURL:   defaultBaseURL,
		apiKey:    apiKey,
		workspace: workspace,
		project:   project,
		http:      http.DefaultClient,
		log:       log,
	}
}

// UploadBatch uploads every image file directly inside dir to the given
// split. Per-file failures are logged and counted; they never stop the
// batch. A missing directory fails the whole batch.
func (c *Client) UploadBatch(ctx context.Context, dir, split string) (model.Stats, error) {
	var stats model.Stats

	entries, err := os.ReadDir(dir)
	if err != nil {
		return stats, fmt.Errorf("failed to read upload directory: %w", err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() || !isImage(entry.Name()) {
			continue
		}
		images = append(images, filepath.Join(dir, entry.Name()))
	}

	if len(images) == 0 {
		c.log.Warn("no image files found",
			zap.String("dir", dir))
		return stats, nil
	}

	c.log.Info("starting batch upload",
		zap.Int("images", len(images)),
		zap.String("split", split))

	for _, image := range images {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		stats.Total++
		if err := c.UploadImage(ctx, image, split); err != nil {
			stats.Failed++
			c.log.Error("upload failed",
				zap.String("image", image),
				zap.Error(err))
			continue
		}

		stats.Success++
	}

	c.log.Info("batch upload completed",
		zap.Int("success", stats.Success),
		zap.Int("failed", stats.Failed))

	return stats, nil
}

// UploadImage sends one image to the project's upload endpoint.
func (c *Client) UploadImage(ctx context.Context, imagePath, split string) error {
	f, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filepath.Base(imagePath))
	if err != nil {
		return err
	}

	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to buffer image: %w", err)
	}

	if err := mw.Close(); err != nil {
		return err
	}

	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("name", filepath.Base(imagePath))
	query.Set("split", split)

	endpoint := fmt.Sprintf("%s/dataset/%s/upload?%s", c.BaseURL, c.project, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.doExpectOK(req)
}

type ProjectInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Images  int    `json:"images"`
	Version int    `json:"versions"`
}

func (c *Client) ProjectInfo(ctx context.Context) (ProjectInfo, error) {
	endpoint := fmt.Sprintf("%s/%s/%s?api_key=%s", c.BaseURL, c.workspace, c.project, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ProjectInfo{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ProjectInfo{}, fmt.Errorf("failed to fetch project info: %w", err)
	}

	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return ProjectInfo{}, fmt.Errorf("project info request returned %d", resp.StatusCode)
	}

	var wrapper struct {
		Project ProjectInfo `json:"project"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return ProjectInfo{}, fmt.Errorf("failed to decode project info: %w", err)
	}

	return wrapper.Project, nil
}

// Download fetches the export archive for a dataset version and writes
// it to destDir as dataset.zip. Version 0 means latest.
func (c *Client) Download(ctx context.Context, version int, format, destDir string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/%d/%s?api_key=%s",
		c.BaseURL, c.workspace, c.project, version, format, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request export: %w", err)
	}

	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("export request returned %d", resp.StatusCode)
	}

	var export struct {
		Export struct {
			Link string `json:"link"`
		} `json:"export"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&export); err != nil {
		return "", fmt.Errorf("failed to decode export response: %w", err)
	}

	if export.Export.Link == "" {
		return "", fmt.Errorf("export response contained no download link")
	}

	return c.fetchArchive(ctx, export.Export.Link, destDir)
}

func (c *Client) fetchArchive(ctx context.Context, link, destDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download archive: %w", err)
	}

	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("archive download returned %d", resp.StatusCode)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	dest := filepath.Join(destDir, "dataset.zip")
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return "", fmt.Errorf("failed to write archive: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close archive: %w", err)
	}

	c.log.Info("dataset downloaded",
		zap.String("path", dest))

	return dest, nil
}

func (c *Client) doExpectOK(req *http.Request) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}

	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("upload returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	return nil
}

func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range imageExtensions {
		if ext == candidate {
			return true
		}
	}

	return false
}
