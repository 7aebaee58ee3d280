package cmd

import (
	"context"
	"fmt"
	"mlsync/internal/daemon"
	"mlsync/internal/pipeline"
	"mlsync/internal/repository"
	"mlsync/internal/syncer/localfs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchLocalRoot  string
	watchRemoteRoot string
	watchSplits     []string
	watchNoUpload   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the local dataset root and re-sync on changes",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	defer func() {
		_ = log.Sync()
	}()

	// Flags win; the config file covers the autostarted daemon, which
	// runs with no arguments.
	if watchLocalRoot == "" {
		watchLocalRoot = cfg.LocalRoot
	}
	if watchRemoteRoot == "" {
		watchRemoteRoot = cfg.RemoteRoot
	}
	if watchLocalRoot == "" || watchRemoteRoot == "" {
		return fmt.Errorf("local and remote roots are required: pass --local-root/--remote-root or set local_root/remote_root in the config file")
	}

	var sink pipeline.UploadSink
	if !watchNoUpload {
		client, err := newUploader()
		if err != nil {
			return err
		}
		sink = client
	}

	orch, err := newOrchestrator(cmd.Context(), sink)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(watchLocalRoot, 0755); err != nil {
		return fmt.Errorf("failed to create local root: %w", err)
	}

	watcher, err := localfs.NewWatcher(cfg.BufferSize, log)
	if err != nil {
		return err
	}
	if err := watcher.Watch(watchLocalRoot); err != nil {
		return err
	}
	defer watcher.Stop()

	events := pipeline.Filter(watcher.Events(), cfg.IgnoreList)
	events = pipeline.NewChecksumFilter(log).Run(events)
	events = pipeline.Debounce(events, time.Duration(cfg.DebounceMs)*time.Millisecond)

	state := daemon.NewState(watchLocalRoot, watchRemoteRoot)
	srv := daemon.NewServer(state, cfg.DaemonPort, log)
	srv.Start()

	repo := repository.NewRunRepository()
	runPass := func(ctx context.Context) {
		report := orch.SyncAll(ctx, watchLocalRoot, watchRemoteRoot, watchSplits)
		state.RecordRun(report)

		if err := repo.SaveReport("watch", report); err != nil {
			log.Warn("failed to save run history",
				zap.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	runPass(ctx)
	log.Info("watching for changes",
		zap.String("root", watchLocalRoot))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case sig := <-sigCh:
			log.Info("shutting down",
				zap.String("signal", sig.String()))
			return shutdown(srv, cancel)

		case <-srv.StopCh():
			log.Info("stop requested via API")
			return shutdown(srv, cancel)

		case _, ok := <-events:
			if !ok {
				return shutdown(srv, cancel)
			}

			// A burst of events only warrants one pass; drain what
			// the debouncer already released.
			drained := true
			for drained {
				select {
				case <-events:
				default:
					drained = false
				}
			}

			runPass(ctx)
		}
	}
}

func shutdown(srv *daemon.Server, cancel context.CancelFunc) error {
	cancel()

	ctx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	return srv.Stop(ctx)
}

func init() {
	watchCmd.Flags().StringVar(&watchLocalRoot, "local-root", "", "Local root folder containing the split folders")
	watchCmd.Flags().StringVar(&watchRemoteRoot, "remote-root", "", "Remote document-library folder containing the split folders")
	watchCmd.Flags().StringSliceVar(&watchSplits, "splits", pipeline.DefaultSplits, "Dataset splits to process, in order")
	watchCmd.Flags().BoolVar(&watchNoUpload, "no-upload", false, "Skip the Roboflow upload step")
	rootCmd.AddCommand(watchCmd)
}
