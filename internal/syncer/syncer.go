package syncer

import (
	"context"
	"mlsync/internal/model"
	"time"
)

// RemoteTree is the capability the engine needs from the remote store:
// pure I/O over a folder hierarchy, no sync logic. Remote paths are
// server-relative strings; WriteFile returns the entry as stored so the
// caller can see the server-assigned timestamp.
type RemoteTree interface {
	ListFiles(ctx context.Context, folder string) ([]model.Entry, error)
	ListFolders(ctx context.Context, folder string) ([]model.Entry, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, folder, name string, data []byte) (model.Entry, error)
	CreateFolder(ctx context.Context, folder, name string) error
}

// LocalTree is the equivalent capability over the local filesystem.
type LocalTree interface {
	List(dir string) (files, folders []model.Entry, err error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	SetModTime(path string, t time.Time) error
	MkdirAll(path string) error
}

// Reconciler is one folder-pair comparison-and-transfer pass. The
// orchestrator consumes the engine through this.
type Reconciler interface {
	Reconcile(ctx context.Context, localFolder, remoteFolder string, direction model.Direction) (model.Stats, error)
}
