package syncer

import (
	"context"
	"errors"
	"fmt"
	"mlsync/internal/model"
	"mlsync/internal/syncer/localfs"
	"path"
	"sort"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFile struct {
	data  []byte
	mtime time.Time
}

// fakeRemote is an in-memory RemoteTree with per-path failure injection.
// WriteFile stamps files with its own clock, the way the real store
// assigns upload timestamps server-side.
type fakeRemote struct {
	files      map[string]fakeFile
	folders    map[string]bool
	serverTime time.Time
	readErrs   map[string]error
	writeErrs  map[string]error
	listErrs   map[string]error
	created    []string
}

func newFakeRemote(root string, serverTime time.Time) *fakeRemote {
	return &fakeRemote{
		files:      make(map[string]fakeFile),
		folders:    map[string]bool{root: true},
		serverTime: serverTime,
		readErrs:   make(map[string]error),
		writeErrs:  make(map[string]error),
		listErrs:   make(map[string]error),
	}
}

func (r *fakeRemote) addFile(p, data string, mtime time.Time) {
	r.files[p] = fakeFile{data: []byte(data), mtime: mtime}
}

func (r *fakeRemote) addFolder(p string) {
	r.folders[p] = true
}

func (r *fakeRemote) ListFiles(_ context.Context, folder string) ([]model.Entry, error) {
	if err := r.listErrs[folder]; err != nil {
		return nil, err
	}
	if !r.folders[folder] {
		return nil, fmt.Errorf("no such folder: %s", folder)
	}

	var entries []model.Entry
	for p, f := range r.files {
		if path.Dir(p) == folder {
			entries = append(entries, model.Entry{Name: path.Base(p), Kind: model.KindFile, ModTime: f.mtime})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return entries, nil
}

func (r *fakeRemote) ListFolders(_ context.Context, folder string) ([]model.Entry, error) {
	if !r.folders[folder] {
		return nil, fmt.Errorf("no such folder: %s", folder)
	}

	var entries []model.Entry
	for p := range r.folders {
		if p != folder && path.Dir(p) == folder {
			entries = append(entries, model.Entry{Name: path.Base(p), Kind: model.KindFolder})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return entries, nil
}

func (r *fakeRemote) ReadFile(_ context.Context, p string) ([]byte, error) {
	if err := r.readErrs[p]; err != nil {
		return nil, err
	}

	f, ok := r.files[p]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", p)
	}

	return f.data, nil
}

func (r *fakeRemote) WriteFile(_ context.Context, folder, name string, data []byte) (model.Entry, error) {
	p := path.Join(folder, name)
	if err := r.writeErrs[p]; err != nil {
		return model.Entry{}, err
	}

	r.files[p] = fakeFile{data: data, mtime: r.serverTime}

	return model.Entry{Name: name, Kind: model.KindFile, ModTime: r.serverTime}, nil
}

func (r *fakeRemote) CreateFolder(_ context.Context, folder, name string) error {
	p := path.Join(folder, name)
	r.created = append(r.created, p)
	r.folders[p] = true

	return nil
}

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(remote *fakeRemote) (*Engine, *localfs.Tree) {
	local := localfs.NewTree(afero.NewMemMapFs())
	return NewEngine(local, remote, zap.NewNop()), local
}

func writeLocal(t *testing.T, tree *localfs.Tree, p, data string, mtime time.Time) {
	t.Helper()
	require.NoError(t, tree.WriteFile(p, []byte(data)))
	require.NoError(t, tree.SetModTime(p, mtime))
}

func TestReconcilePullsMissingFile(t *testing.T) {
	remote := newFakeRemote("/lib/train", base)
	remote.addFile("/lib/train/a.jpg", "remote-a", base)

	engine, local := newTestEngine(remote)
	require.NoError(t, local.MkdirAll("/data/train"))

	stats, err := engine.Reconcile(context.Background(), "/data/train", "/lib/train", model.Both)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Success: 1, Failed: 0, Total: 1}, stats)

	data, err := local.ReadFile("/data/train/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "remote-a", string(data))

	info, err := local.Stat("/data/train/a.jpg")
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(base), "local copy should carry the remote mtime exactly")
}

func TestReconcilePushesMissingFile(t *testing.T) {
	serverTime := base.Add(time.Hour)
	remote := newFakeRemote("/lib/train", serverTime)

	engine, local := newTestEngine(remote)
	writeLocal(t, local, "/data/train/b.jpg", "local-b", base)

	stats, err := engine.Reconcile(context.Background(), "/data/train", "/lib/train", model.Both)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Success: 1, Failed: 0, Total: 1}, stats)

	assert.Equal(t, "local-b", string(remote.files["/lib/train/b.jpg"].data))

	info, err := local.Stat("/data/train/b.jpg")
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(serverTime), "local copy should adopt the store-assigned mtime after push")
}

func TestToleranceBoundary(t *testing.T) {
	tests := []struct {
		name     string
		skew     time.Duration
		expected model.Stats
	}{
		{"within tolerance", 1900 * time.Millisecond, model.Stats{}},
		{"beyond tolerance", 2100 * time.Millisecond, model.Stats{Success: 1, Total: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := newFakeRemote("/lib/train", base)
			remote.addFile("/lib/train/a.jpg", "newer", base.Add(tt.skew))

			engine, local := newTestEngine(remote)
			writeLocal(t, local, "/data/train/a.jpg", "older", base)

			stats, err := engine.Reconcile(context.Background(), "/data/train", "/lib/train", model.Both)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, stats)
		})
	}
}

func TestLocalNewerWins(t *testing.T) {
	remote := newFakeRemote("/lib/train", base.Add(time.Hour))
	remote.addFile("/lib/train/a.jpg", "stale", base)

	engine, local := newTestEngine(remote)
	writeLocal(t, local, "/data/train/a.jpg", "fresh", base.Add(5*time.Second))

	stats, err := engine.Reconcile(context.Background(), "/data/train", "/lib/train", model.Both)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Success: 1, Failed: 0, Total: 1}, stats)
	assert.Equal(t, "fresh", string(remote.files["/lib/train/a.jpg"].data))
}

func TestReconcileIdempotent(t *testing.T) {
	remote := newFakeRemote("/lib/train", base.Add(time.Hour))
	remote.addFile("/lib/train/a.jpg", "remote-a", base)

	engine, local := newTestEngine(remote)
	writeLocal(t, local, "/data/train/b.jpg", "local-b", base)

	first, err := engine.Reconcile(context.Background(), "/data/train", "/lib/train", model.Both)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Success: 2, Failed: 0, Total: 2}, first)

	second, err := engine.Reconcile(context.Background(), "/data/train", "/lib/train", model.Both)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{}, second, "a second pass over reconciled trees should transfer nothing")
}

func TestPerFileFailureIsolation(t *testing.T) {
	remote := newFakeRemote("/lib/train", base)
	remote.addFile("/lib/train/a.jpg", "a", base)
	remote.addFile("/lib/train/b.jpg", "b", base)
	remote.addFile("/lib/train/c.jpg", "c", base)
	remote.readErrs["/lib/train/b.jpg"] = errors.New("503 service unavailable")

	engine, local := newTestEngine(remote)
	require.NoError(t, local.MkdirAll("/data/train"))

	stats, err := engine.Reconcile(context.Background(), "/data/train", "/lib/train", model.ToLocal)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Success: 2, Failed: 1, Total: 3}, stats)

	_, err = local.ReadFile("/data/train/a.jpg")
	assert.NoError(t, err)
	_, err = local.ReadFile("/data/train/c.jpg")
	assert.NoError(t, err)
	_, err = local.ReadFile("/data/train/b.jpg")
	assert.Error(t, err)
}

func TestReservedFolderExcluded(t *testing.T) {
	remote := newFakeRemote("/lib/train", base)
	remote.addFolder("/lib/train/Forms")
	remote.addFile("/lib/train/Forms/template.xsn", "meta", base)

	engine, local := newTestEngine(remote)
	writeLocal(t, local, "/data/train/Forms/stray.jpg", "stray", base)

	stats, err := engine.Reconcile(context.Background(), "/data/train", "/lib/train", model.Both)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{}, stats)

	_, err = local.ReadFile("/data/train/Forms/template.xsn")
	assert.Error(t, err, "reserved folder content must never be pulled")
	assert.Empty(t, remote.created, "reserved folder must never be created remotely")
}

func TestFolderCreationBothDirections(t *testing.T) {
	serverTime := base.Add(time.Hour)
	remote := newFakeRemote("/lib/train", serverTime)
	remote.addFolder("/lib/train/cats")
	remote.addFile("/lib/train/cats/1.jpg", "cat", base)

	engine, local := newTestEngine(remote)
	writeLocal(t, local, "/data/train/dogs/2.jpg", "dog", base)

	stats, err := engine.Reconcile(context.Background(), "/data/train", "/lib/train", model.Both)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Success: 2, Failed: 0, Total: 2}, stats)

	data, err := local.ReadFile("/data/train/cats/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "cat", string(data))

	assert.Contains(t, remote.created, "/lib/train/dogs")
	assert.Equal(t, "dog", string(remote.files["/lib/train/dogs/2.jpg"].data))
}

func TestSubtreeAbandonedOnListFailure(t *testing.T) {
	remote := newFakeRemote("/lib/train", base)
	remote.addFile("/lib/train/a.jpg", "a", base)
	remote.addFolder("/lib/train/broken")
	remote.listErrs["/lib/train/broken"] = errors.New("403 forbidden")

	engine, local := newTestEngine(remote)
	require.NoError(t, local.MkdirAll("/data/train"))

	stats, err := engine.Reconcile(context.Background(), "/data/train", "/lib/train", model.ToLocal)
	require.NoError(t, err, "a failing subtree must not fail the run")
	assert.Equal(t, model.Stats{Success: 1, Failed: 0, Total: 1}, stats)
}

func TestRootEnumerationFailure(t *testing.T) {
	remote := newFakeRemote("/lib/train", base)
	remote.listErrs["/lib/train"] = errors.New("404 not found")

	engine, local := newTestEngine(remote)
	require.NoError(t, local.MkdirAll("/data/train"))

	stats, err := engine.Reconcile(context.Background(), "/data/train", "/lib/train", model.Both)
	assert.Error(t, err)
	assert.Equal(t, model.Stats{}, stats)
}

func TestDirectionToLocalDoesNotPush(t *testing.T) {
	remote := newFakeRemote("/lib/train", base)
	remote.addFile("/lib/train/a.jpg", "a", base)

	engine, local := newTestEngine(remote)
	writeLocal(t, local, "/data/train/b.jpg", "b", base)

	stats, err := engine.Reconcile(context.Background(), "/data/train", "/lib/train", model.ToLocal)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Success: 1, Failed: 0, Total: 1}, stats)

	_, ok := remote.files["/lib/train/b.jpg"]
	assert.False(t, ok)
}

func TestDirectionToRemoteDoesNotPull(t *testing.T) {
	remote := newFakeRemote("/lib/train", base.Add(time.Hour))
	remote.addFile("/lib/train/a.jpg", "a", base)

	engine, local := newTestEngine(remote)
	writeLocal(t, local, "/data/train/b.jpg", "b", base)

	stats, err := engine.Reconcile(context.Background(), "/data/train", "/lib/train", model.ToRemote)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Success: 1, Failed: 0, Total: 1}, stats)

	_, err = local.ReadFile("/data/train/a.jpg")
	assert.Error(t, err)
}

func TestReconcileCancelledContext(t *testing.T) {
	remote := newFakeRemote("/lib/train", base)
	remote.addFile("/lib/train/a.jpg", "a", base)

	engine, local := newTestEngine(remote)
	require.NoError(t, local.MkdirAll("/data/train"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Reconcile(ctx, "/data/train", "/lib/train", model.Both)
	assert.ErrorIs(t, err, context.Canceled)
}
