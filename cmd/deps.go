package cmd

import (
	"context"
	"mlsync/internal/auth"
	"mlsync/internal/pipeline"
	"mlsync/internal/syncer"
	"mlsync/internal/syncer/localfs"
	"mlsync/internal/syncer/sharepoint"
	"mlsync/internal/uploader"
)

// newOrchestrator wires the remote session, accessors and engine for
// the sync commands. Credential validation and the token fetch happen
// here, before any tree is touched.
func newOrchestrator(ctx context.Context, sink pipeline.UploadSink) (*pipeline.Orchestrator, error) {
	if err := cfg.ValidateSharePoint(); err != nil {
		return nil, err
	}

	cred, err := auth.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	session, err := auth.NewSession(ctx, cfg.SharePointSite, cfg.SharePointTenant, cred)
	if err != nil {
		return nil, err
	}

	local := localfs.NewOsTree()
	remote := sharepoint.NewClient(session, log)
	engine := syncer.NewEngine(local, remote, log)

	return pipeline.NewOrchestrator(engine, local, sink, log), nil
}

// newUploader validates the artifact-store config and builds its client.
func newUploader() (*uploader.Client, error) {
	if err := cfg.ValidateRoboflow(); err != nil {
		return nil, err
	}

	return uploader.NewClient(cfg.RoboflowAPIKey, cfg.RoboflowWorkspace, cfg.RoboflowProject, log), nil
}
