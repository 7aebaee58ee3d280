package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"mlsync/internal/daemon"
	"net/http"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "View watch daemon status",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Get(daemonURL("/status"))
		if err != nil {
			return fmt.Errorf("daemon not running: %w", err)
		}

		defer func(body io.ReadCloser) {
			_ = body.Close()
		}(resp.Body)

		var snap daemon.Snapshot
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			return fmt.Errorf("failed to decode status response: %w", err)
		}

		lastRun := "-"
		if snap.LastRun != nil {
			lastRun = snap.LastRun.Format("2006-01-02 15:04:05")
		}

		fmt.Printf("watching %s <-> %s\n", snap.LocalRoot, snap.RemoteRoot)
		fmt.Printf("uptime: %s, runs: %d, last run: %s\n",
			time.Since(snap.StartedAt).Round(time.Second), snap.Runs, lastRun)

		if len(snap.LastReport) == 0 {
			return nil
		}

		splits := make([]string, 0, len(snap.LastReport))
		for split := range snap.LastReport {
			splits = append(splits, split)
		}
		sort.Strings(splits)

		for _, split := range splits {
			res := snap.LastReport[split]
			fmt.Printf("  %-6s %d synced, %d failed, %d total", split, res.Success, res.Failed, res.Total)
			if res.Err != "" {
				fmt.Printf(" (error: %s)", res.Err)
			}
			fmt.Println()
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
