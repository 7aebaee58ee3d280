package syncer

import (
	"context"
	"fmt"
	"mlsync/internal/model"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Tolerance is the mtime difference below which a local and a remote
// file with the same name are considered equivalent. It absorbs clock
// and timestamp-precision skew between the two systems.
const Tolerance = 2 * time.Second

// reservedRemoteFolder is the store's internal metadata container. It
// must never be listed, created or recursed into.
const reservedRemoteFolder = "Forms"

// Engine walks a (local folder, remote folder) pair and transfers
// whatever one side is missing or holds an older copy of. All state is
// per-invocation; nothing is cached across runs.
type Engine struct {
	local     LocalTree
	remote    RemoteTree
	log       *zap.Logger
	tolerance time.Duration
}

func NewEngine(local LocalTree, remote RemoteTree, log *zap.Logger) *Engine {
	return &Engine{
		local:     local,
		remote:    remote,
		log:       log,
		tolerance: Tolerance,
	}
}

// pair is one work-list frame: the same folder addressed on both sides.
type pair struct {
	local  string
	remote string
}

// Reconcile compares the two trees rooted at the given pair and
// transfers entries according to direction, recursing into matched
// subfolders via an explicit work list. Per-file failures are counted
// and logged but never abort siblings; a folder whose enumeration fails
// is abandoned along with its subtree. Enumeration failure of the root
// pair itself is returned as an error with zero stats.
func (e *Engine) Reconcile(ctx context.Context, localFolder, remoteFolder string, direction model.Direction) (model.Stats, error) {
	var stats model.Stats

	root := pair{local: localFolder, remote: remoteFolder}
	work := []pair{root}

	for len(work) > 0 {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		p := work[0]
		work = work[1:]

		folderStats, children, err := e.reconcileFolder(ctx, p, direction)
		stats.Merge(folderStats)

		if err != nil {
			if p == root {
				return stats, err
			}

			e.log.Warn("abandoning subtree",
				zap.String("local", p.local),
				zap.String("remote", p.remote),
				zap.Error(err))
			continue
		}

		work = append(work, children...)
	}

	return stats, nil
}

func (e *Engine) reconcileFolder(ctx context.Context, p pair, direction model.Direction) (model.Stats, []pair, error) {
	var stats model.Stats

	remoteFiles, err := e.remote.ListFiles(ctx, p.remote)
	if err != nil {
		return stats, nil, fmt.Errorf("failed to list remote files in %s: %w", p.remote, err)
	}

	remoteFolders, err := e.remote.ListFolders(ctx, p.remote)
	if err != nil {
		return stats, nil, fmt.Errorf("failed to list remote folders in %s: %w", p.remote, err)
	}

	localFiles, localFolders, err := e.local.List(p.local)
	if err != nil {
		return stats, nil, fmt.Errorf("failed to list local folder %s: %w", p.local, err)
	}

	if direction.PullEnabled() {
		pulled := e.pullPhase(ctx, p, remoteFiles, byName(localFiles), &stats)

		// Pulled files changed on disk; refresh before the push
		// phase so its decisions see the reconciled mtimes.
		if pulled && direction.PushEnabled() {
			localFiles, _, err = e.local.List(p.local)
			if err != nil {
				return stats, nil, fmt.Errorf("failed to re-list local folder %s: %w", p.local, err)
			}
		}
	}

	if direction.PushEnabled() {
		e.pushPhase(ctx, p, localFiles, byName(remoteFiles), &stats)
	}

	children := e.recurse(ctx, p, remoteFolders, localFolders, direction)
	return stats, children, nil
}

// pullPhase downloads every remote file that is absent locally or newer
// than the local copy by more than the tolerance. Reports whether any
// file was written.
func (e *Engine) pullPhase(ctx context.Context, p pair, remoteFiles []model.Entry, local map[string]model.Entry, stats *model.Stats) bool {
	pulled := false

	for _, remote := range remoteFiles {
		if ctx.Err() != nil {
			return pulled
		}

		if lf, ok := local[remote.Name]; ok && !e.newer(remote.ModTime, lf.ModTime) {
			e.log.Debug("up-to-date",
				zap.String("file", filepath.Join(p.local, remote.Name)))
			continue
		}

		stats.Total++
		if err := e.pull(ctx, p, remote); err != nil {
			stats.Failed++
			e.log.Error("pull failed",
				zap.String("file", remote.Name),
				zap.String("remote", p.remote),
				zap.Error(err))
			continue
		}

		stats.Success++
		pulled = true
	}

	return pulled
}

func (e *Engine) pull(ctx context.Context, p pair, remote model.Entry) error {
	remotePath := path.Join(p.remote, remote.Name)
	localPath := filepath.Join(p.local, remote.Name)

	e.log.Info("pulling",
		zap.String("from", remotePath),
		zap.String("to", localPath))

	data, err := e.remote.ReadFile(ctx, remotePath)
	if err != nil {
		return fmt.Errorf("failed to read remote file: %w", err)
	}

	if err := e.local.WriteFile(localPath, data); err != nil {
		return fmt.Errorf("failed to write local file: %w", err)
	}

	// Stamping the remote mtime onto the local copy is what makes the
	// pair read as equivalent on the next pass, and keeps a Both pass
	// from pushing the file straight back.
	if err := e.local.SetModTime(localPath, remote.ModTime); err != nil {
		return fmt.Errorf("failed to set local mtime: %w", err)
	}

	return nil
}

// pushPhase uploads every local file that is absent remotely or newer
// than the remote copy by more than the tolerance.
func (e *Engine) pushPhase(ctx context.Context, p pair, localFiles []model.Entry, remote map[string]model.Entry, stats *model.Stats) {
	for _, local := range localFiles {
		if ctx.Err() != nil {
			return
		}

		if rf, ok := remote[local.Name]; ok && !e.newer(local.ModTime, rf.ModTime) {
			continue
		}

		stats.Total++
		if err := e.push(ctx, p, local); err != nil {
			stats.Failed++
			e.log.Error("push failed",
				zap.String("file", local.Name),
				zap.String("remote", p.remote),
				zap.Error(err))
			continue
		}

		stats.Success++
	}
}

func (e *Engine) push(ctx context.Context, p pair, local model.Entry) error {
	localPath := filepath.Join(p.local, local.Name)

	e.log.Info("pushing",
		zap.String("from", localPath),
		zap.String("to", path.Join(p.remote, local.Name)))

	data, err := e.local.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("failed to read local file: %w", err)
	}

	stored, err := e.remote.WriteFile(ctx, p.remote, local.Name, data)
	if err != nil {
		return fmt.Errorf("failed to write remote file: %w", err)
	}

	// The store assigns its own timestamp on upload. Adopt it locally,
	// mirroring what pull does, so the next Both pass skips the file
	// instead of re-detecting it as push-eligible forever.
	if !stored.ModTime.IsZero() {
		if err := e.local.SetModTime(localPath, stored.ModTime); err != nil {
			e.log.Warn("failed to adopt remote mtime after push",
				zap.String("file", localPath),
				zap.Error(err))
		}
	}

	return nil
}

// recurse builds the child work list from the union of subfolder names,
// creating the missing side first where the direction allows it. A
// failed folder creation abandons that subtree only.
func (e *Engine) recurse(ctx context.Context, p pair, remoteFolders, localFolders []model.Entry, direction model.Direction) []pair {
	var children []pair

	localByName := byName(localFolders)
	remoteByName := byName(remoteFolders)

	for _, folder := range remoteFolders {
		if folder.Name == reservedRemoteFolder {
			continue
		}

		child := pair{
			local:  filepath.Join(p.local, folder.Name),
			remote: path.Join(p.remote, folder.Name),
		}

		if _, ok := localByName[folder.Name]; !ok {
			if !direction.PullEnabled() {
				continue
			}

			if err := e.local.MkdirAll(child.local); err != nil {
				e.log.Warn("failed to create local folder, abandoning subtree",
					zap.String("path", child.local),
					zap.Error(err))
				continue
			}
		}

		children = append(children, child)
	}

	for _, folder := range localFolders {
		if folder.Name == reservedRemoteFolder {
			continue
		}

		if _, ok := remoteByName[folder.Name]; ok {
			continue // already queued above
		}

		if !direction.PushEnabled() {
			continue
		}

		if err := e.remote.CreateFolder(ctx, p.remote, folder.Name); err != nil {
			e.log.Warn("failed to create remote folder, abandoning subtree",
				zap.String("folder", folder.Name),
				zap.String("remote", p.remote),
				zap.Error(err))
			continue
		}

		children = append(children, pair{
			local:  filepath.Join(p.local, folder.Name),
			remote: path.Join(p.remote, folder.Name),
		})
	}

	return children
}

// newer reports whether a beats b by more than the tolerance.
func (e *Engine) newer(a, b time.Time) bool {
	return a.Sub(b) > e.tolerance
}

func byName(entries []model.Entry) map[string]model.Entry {
	m := make(map[string]model.Entry, len(entries))
	for _, entry := range entries {
		m[entry.Name] = entry
	}

	return m
}
