package cmd

import (
	"fmt"
	"mlsync/internal/model"
	"mlsync/internal/pipeline"
	"mlsync/internal/repository"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncAllLocalRoot  string
	syncAllRemoteRoot string
	syncAllSplits     []string
	syncAllNoUpload   bool
)

var syncAllCmd = &cobra.Command{
	Use:   "sync-all",
	Short: "Sync every dataset split with the remote store and upload to Roboflow",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer func() {
			_ = log.Sync()
		}()

		if syncAllLocalRoot == "" || syncAllRemoteRoot == "" {
			return fmt.Errorf("--local-root and --remote-root are required")
		}

		var sink pipeline.UploadSink
		if !syncAllNoUpload {
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

		report := orch.SyncAll(cmd.Context(), syncAllLocalRoot, syncAllRemoteRoot, syncAllSplits)

		repo := repository.NewRunRepository()
		if err := repo.SaveReport("sync-all", report); err != nil {
			log.Warn("failed to save run history",
				zap.Error(err))
		}

		printReport(report)

		if report.HasFailures() {
			return fmt.Errorf("sync-all completed with failures")
		}

		return nil
	},
}

func printReport(report model.Report) {
	splits := make([]string, 0, len(report))
	for split := range report {
		splits = append(splits, split)
	}
	sort.Strings(splits)

	fmt.Println("\nSync Summary:")
	for _, split := range splits {
		res := report[split]
		if res.Err != "" {
			fmt.Printf("  %-6s %d synced, %d failed, %d total (error: %s)\n",
				split, res.Success, res.Failed, res.Total, res.Err)
			continue
		}

		fmt.Printf("  %-6s %d synced, %d failed, %d total\n",
			split, res.Success, res.Failed, res.Total)
	}
}

func init() {
	syncAllCmd.Flags().StringVar(&syncAllLocalRoot, "local-root", "", "Local root folder containing the split folders")
	syncAllCmd.Flags().StringVar(&syncAllRemoteRoot, "remote-root", "", "Remote document-library folder containing the split folders")
	syncAllCmd.Flags().StringSliceVar(&syncAllSplits, "splits", pipeline.DefaultSplits, "Dataset splits to process, in order")
	syncAllCmd.Flags().BoolVar(&syncAllNoUpload, "no-upload", false, "Skip the Roboflow upload step")
	rootCmd.AddCommand(syncAllCmd)
}
