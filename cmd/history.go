package cmd

import (
	"fmt"
	"mlsync/internal/repository"

	"github.com/spf13/cobra"
)

var historyN int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent sync runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := repository.NewRunRepository()

		runs, err := repo.GetRecent(historyN)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("no history yet")
			return nil
		}

		for _, run := range runs {
			status := "✓"
			if run.Failed > 0 || run.ErrMsg != "" {
				status = "✗"
			}

			line := fmt.Sprintf("%s [%s] %-9s %-6s %d synced, %d failed, %d total",
				status,
				run.RanAt.Format("2006-01-02 15:04:05"),
				run.Command,
				run.Split,
				run.Success,
				run.Failed,
				run.Total,
			)
			if run.ErrMsg != "" {
				line += " (" + run.ErrMsg + ")"
			}

			fmt.Println(line)
		}

		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyN, "n", 20, "number of history entries to show")
	rootCmd.AddCommand(historyCmd)
}
