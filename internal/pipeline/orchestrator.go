package pipeline

import (
	"context"
	"mlsync/internal/model"
	"mlsync/internal/syncer"
	"path"
	"path/filepath"

	"go.uber.org/zap"
)

// DefaultSplits are the dataset partitions synchronized by sync-all, in
// their fixed processing order.
var DefaultSplits = []string{"train", "valid", "test"}

// UploadSink ingests a synchronized local folder's contents under a
// split label. The artifact-store client implements it.
type UploadSink interface {
	UploadBatch(ctx context.Context, dir, split string) (model.Stats, error)
}

// Orchestrator drives the engine across splits and hands each
// synchronized split to the upload sink. Split failures are isolated:
// one split never blocks the rest.
type Orchestrator struct {
	engine syncer.Reconciler
	local  syncer.LocalTree
	sink   UploadSink
	log    *zap.Logger
}

// NewOrchestrator builds an orchestrator. sink may be nil when no
// artifact store is configured; splits are then only reconciled.
func NewOrchestrator(engine syncer.Reconciler, local syncer.LocalTree, sink UploadSink, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		engine: engine,
		local:  local,
		sink:   sink,
		log:    log,
	}
}

// SyncAll reconciles each named split bidirectionally and uploads the
// result, merging reconcile and upload counts into one entry per split.
func (o *Orchestrator) SyncAll(ctx context.Context, localRoot, remoteRoot string, splits []string) model.Report {
	report := make(model.Report, len(splits))

	for _, split := range splits {
		result := &model.SplitResult{}
		report[split] = result

		if err := ctx.Err(); err != nil {
			result.Err = err.Error()
			continue
		}

		localDir := filepath.Join(localRoot, split)
		remoteDir := path.Join(remoteRoot, split)

		o.log.Info("syncing split",
			zap.String("split", split),
			zap.String("local", localDir),
			zap.String("remote", remoteDir))

		if err := o.local.MkdirAll(localDir); err != nil {
			result.Err = err.Error()
			o.log.Error("failed to prepare local split folder",
				zap.String("split", split),
				zap.Error(err))
			continue
		}

		stats, err := o.engine.Reconcile(ctx, localDir, remoteDir, model.Both)
		result.Stats.Merge(stats)
		if err != nil {
			result.Err = err.Error()
			o.log.Error("split reconcile failed",
				zap.String("split", split),
				zap.Error(err))
			continue
		}

		if o.sink == nil {
			continue
		}

		uploadStats, err := o.sink.UploadBatch(ctx, localDir, split)
		result.Stats.Merge(uploadStats)
		if err != nil {
			result.Err = err.Error()
			o.log.Error("split upload failed",
				zap.String("split", split),
				zap.Error(err))
		}
	}

	return report
}

// Sync is the single-pair variant: one engine invocation with start and
// completion logging.
func (o *Orchestrator) Sync(ctx context.Context, localFolder, remoteFolder string, direction model.Direction) (model.Stats, error) {
	o.log.Info("starting sync",
		zap.String("local", localFolder),
		zap.String("remote", remoteFolder),
		zap.String("direction", string(direction)))

	if err := o.local.MkdirAll(localFolder); err != nil {
		return model.Stats{}, err
	}

	stats, err := o.engine.Reconcile(ctx, localFolder, remoteFolder, direction)
	if err != nil {
		return stats, err
	}

	o.log.Info("sync complete",
		zap.Int("success", stats.Success),
		zap.Int("failed", stats.Failed),
		zap.Int("total", stats.Total))

	return stats, nil
}
