package localfs

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSeparatesFilesAndFolders(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/a.jpg", []byte("a"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/data/b.jpg", []byte("b"), 0644))
	require.NoError(t, fs.MkdirAll("/data/nested", 0755))

	tree := NewTree(fs)
	files, folders, err := tree.List("/data")
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "a.jpg", files[0].Name)
	assert.Equal(t, "b.jpg", files[1].Name)

	require.Len(t, folders, 1)
	assert.Equal(t, "nested", folders[0].Name)
}

func TestListMissingDir(t *testing.T) {
	tree := NewTree(afero.NewMemMapFs())
	_, _, err := tree.List("/nope")
	assert.Error(t, err)
}

func TestWriteFileCreatesParents(t *testing.T) {
	tree := NewTree(afero.NewMemMapFs())
	require.NoError(t, tree.WriteFile("/data/train/a.jpg", []byte("content")))

	data, err := tree.ReadFile("/data/train/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestWriteFileLeavesNoTempFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	tree := NewTree(fs)
	require.NoError(t, tree.WriteFile("/data/a.jpg", []byte("content")))

	exists, err := afero.Exists(fs, "/data/a.jpg.mlsync.tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSetModTime(t *testing.T) {
	tree := NewTree(afero.NewMemMapFs())
	require.NoError(t, tree.WriteFile("/data/a.jpg", []byte("a")))

	mtime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, tree.SetModTime("/data/a.jpg", mtime))

	info, err := tree.Stat("/data/a.jpg")
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))
}
