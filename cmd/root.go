package cmd

import (
	"fmt"
	"mlsync/internal/config"
	"mlsync/internal/db"
	"mlsync/internal/logger"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg   *config.Config
	log   *zap.Logger
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "mlsync",
	Short: "Sync dataset folders between local disk, SharePoint and Roboflow",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		log, err = logger.New(debug)
		if err != nil {
			return err
		}

		cfg, err = config.Load()
		if err != nil {
			return err
		}

		// Commands that only talk to the daemon or edit config do not
		// need the history db.
		clientCmds := map[string]bool{
			"status": true, "stop": true, "login": true,
			"install": true, "uninstall": true,
		}
		if !clientCmds[cmd.Name()] {
			dbPath := cfg.DBPath
			if !filepath.IsAbs(dbPath) {
				dir, err := config.Dir()
				if err != nil {
					return err
				}
				dbPath = filepath.Join(dir, dbPath)
			}

			if err := db.Init(dbPath); err != nil {
				return err
			}
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func daemonURL(path string) string {
	return fmt.Sprintf("http://localhost:%d%s", cfg.DaemonPort, path)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug mode")
}
