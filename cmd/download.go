package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	downloadVersion int
	downloadFormat  string
	downloadOutDir  string
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download a dataset version export from Roboflow",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer func() {
			_ = log.Sync()
		}()

		client, err := newUploader()
		if err != nil {
			return err
		}

		fmt.Printf("downloading dataset version %d in format %q...\n", downloadVersion, downloadFormat)

		dest, err := client.Download(cmd.Context(), downloadVersion, downloadFormat, downloadOutDir)
		if err != nil {
			return err
		}

		fmt.Printf("dataset downloaded to %s\n", dest)
		return nil
	},
}

func init() {
	downloadCmd.Flags().IntVar(&downloadVersion, "version", 1, "Dataset version number")
	downloadCmd.Flags().StringVar(&downloadFormat, "format", "yolov8", "Dataset export format")
	downloadCmd.Flags().StringVar(&downloadOutDir, "output-dir", "./data", "Directory to save the dataset")
	rootCmd.AddCommand(downloadCmd)
}
