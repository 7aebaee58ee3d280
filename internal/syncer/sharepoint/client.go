package sharepoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mlsync/internal/auth"
	"mlsync/internal/model"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"
)

// timeLayout is the store's TimeLastModified wire form: UTC seconds,
// no fractional part.
const timeLayout = "2006-01-02T15:04:05Z"

// Client speaks the document library's REST contract over an
// authenticated session. Folder arguments are server-relative paths
// like "Shared Documents/datasets/train".
type Client struct {
	session *auth.Session
	log     *zap.Logger
}

func NewClient(session *auth.Session, log *zap.Logger) *Client {
	return &Client{
		session: session,
		log:     log,
	}
}

type fileItem struct {
	Name             string `json:"Name"`
	TimeLastModified string `json:"TimeLastModified"`
}

type folderItem struct {
	Name string `json:"Name"`
}

type listResponse[T any] struct {
	Value []T `json:"value"`
}

func (c *Client) ListFiles(ctx context.Context, folder string) ([]model.Entry, error) {
	endpoint := fmt.Sprintf("GetFolderByServerRelativeUrl('%s')/Files?$select=Name,TimeLastModified", escapePath(folder))

	var resp listResponse[fileItem]
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to list files in %s: %w", folder, err)
	}

	entries := make([]model.Entry, 0, len(resp.Value))
	for _, item := range resp.Value {
		mtime, err := parseTimestamp(item.TimeLastModified)
		if err != nil {
			return nil, fmt.Errorf("bad timestamp for %s/%s: %w", folder, item.Name, err)
		}

		entries = append(entries, model.Entry{
			Name:    item.Name,
			Kind:    model.KindFile,
			ModTime: mtime,
		})
	}

	return entries, nil
}

func (c *Client) ListFolders(ctx context.Context, folder string) ([]model.Entry, error) {
	endpoint := fmt.Sprintf("GetFolderByServerRelativeUrl('%s')/Folders?$select=Name", escapePath(folder))

	var resp listResponse[folderItem]
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("failed to list folders in %s: %w", folder, err)
	}

	entries := make([]model.Entry, 0, len(resp.Value))
	for _, item := range resp.Value {
		entries = append(entries, model.Entry{
			Name: item.Name,
			Kind: model.KindFolder,
		})
	}

	return entries, nil
}

func (c *Client) ReadFile(ctx context.Context, filePath string) ([]byte, error) {
	endpoint := fmt.Sprintf("GetFileByServerRelativeUrl('%s')/$value", escapePath(filePath))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL(endpoint), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	return data, nil
}

// WriteFile uploads under the given name, overwriting any existing
// file, and returns the entry as stored so callers can see the
// server-assigned timestamp.
func (c *Client) WriteFile(ctx context.Context, folder, name string, data []byte) (model.Entry, error) {
	endpoint := fmt.Sprintf("GetFolderByServerRelativeUrl('%s')/Files/add(url='%s',overwrite=true)",
		escapePath(folder), escapePath(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL(endpoint), bytes.NewReader(data))
	if err != nil {
		return model.Entry{}, err
	}
	req.Header.Set("Accept", "application/json;odata=nometadata")

	resp, err := c.do(req)
	if err != nil {
		return model.Entry{}, fmt.Errorf("failed to upload %s to %s: %w", name, folder, err)
	}

	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	var stored fileItem
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return model.Entry{}, fmt.Errorf("failed to decode upload response for %s: %w", name, err)
	}

	mtime, err := parseTimestamp(stored.TimeLastModified)
	if err != nil {
		return model.Entry{}, fmt.Errorf("bad timestamp in upload response for %s: %w", name, err)
	}

	return model.Entry{
		Name:    stored.Name,
		Kind:    model.KindFile,
		ModTime: mtime,
	}, nil
}

func (c *Client) CreateFolder(ctx context.Context, folder, name string) error {
	body, err := json.Marshal(map[string]string{
		"ServerRelativeUrl": path.Join(folder, name),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL("folders"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json;odata=nometadata")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("failed to create folder %s in %s: %w", name, folder, err)
	}

	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL(endpoint), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json;odata=nometadata")

	resp, err := c.do(req)
	if err != nil {
		return err
	}

	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	return json.NewDecoder(resp.Body).Decode(out)
}

// do executes the request and folds non-2xx statuses into errors.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Client().Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func(body io.ReadCloser) {
			_ = body.Close()
		}(resp.Body)

		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	return resp, nil
}

func (c *Client) apiURL(endpoint string) string {
	return strings.TrimSuffix(c.session.SiteURL(), "/") + "/_api/web/" + endpoint
}

// escapePath doubles single quotes for embedding inside the quoted
// server-relative URL literal.
func escapePath(p string) string {
	return strings.ReplaceAll(p, "'", "''")
}
