package cmd

import (
	"fmt"
	"mlsync/internal/model"
	"mlsync/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncDirection string

var syncCmd = &cobra.Command{
	Use:   "sync [local-folder] [remote-folder]",
	Short: "Sync one local folder against a remote document-library folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		defer func() {
			_ = log.Sync()
		}()

		localFolder, remoteFolder := args[0], args[1]

		direction, err := model.ParseDirection(syncDirection)
		if err != nil {
			return err
		}

		orch, err := newOrchestrator(cmd.Context(), nil)
		if err != nil {
			return err
		}

		stats, runErr := orch.Sync(cmd.Context(), localFolder, remoteFolder, direction)

		repo := repository.NewRunRepository()
		errMsg := ""
		if runErr != nil {
			errMsg = runErr.Error()
		}
		if err := repo.Save("sync", remoteFolder, stats, errMsg); err != nil {
			log.Warn("failed to save run history",
				zap.Error(err))
		}

		if runErr != nil {
			return runErr
		}

		fmt.Printf("done: %d synced, %d failed (%d total)\n", stats.Success, stats.Failed, stats.Total)

		if stats.Failed > 0 {
			return fmt.Errorf("%d of %d transfers failed", stats.Failed, stats.Total)
		}

		return nil
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncDirection, "direction", string(model.Both), "Sync direction: to-local, to-remote or both")
	rootCmd.AddCommand(syncCmd)
}
