package localfs

import (
	"fmt"
	"mlsync/internal/model"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// Tree implements the engine's local accessor on top of an afero
// filesystem: the OS fs in production, a memory fs in tests.
type Tree struct {
	fs afero.Fs
}

func NewTree(fs afero.Fs) *Tree {
	return &Tree{fs: fs}
}

func NewOsTree() *Tree {
	return NewTree(afero.NewOsFs())
}

func (t *Tree) List(dir string) (files, folders []model.Entry, err error) {
	infos, err := afero.ReadDir(t.fs, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	for _, info := range infos {
		entry := model.Entry{
			Name:    info.Name(),
			ModTime: info.ModTime(),
		}

		if info.IsDir() {
			entry.Kind = model.KindFolder
			folders = append(folders, entry)
		} else {
			entry.Kind = model.KindFile
			files = append(files, entry)
		}
	}

	return files, folders, nil
}

func (t *Tree) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(t.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return data, nil
}

// WriteFile writes through a temp file and renames, so a failed pull
// never leaves a truncated file behind.
func (t *Tree) WriteFile(path string, data []byte) error {
	if err := t.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create parent dir: %w", err)
	}

	tmp := path + ".mlsync.tmp"
	if err := afero.WriteFile(t.fs, tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := t.fs.Rename(tmp, path); err != nil {
		_ = t.fs.Remove(tmp)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

func (t *Tree) SetModTime(path string, mtime time.Time) error {
	if err := t.fs.Chtimes(path, mtime, mtime); err != nil {
		return fmt.Errorf("failed to set mtime on %s: %w", path, err)
	}

	return nil
}

func (t *Tree) MkdirAll(path string) error {
	if err := t.fs.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create dir %s: %w", path, err)
	}

	return nil
}

func (t *Tree) Stat(path string) (os.FileInfo, error) {
	return t.fs.Stat(path)
}
