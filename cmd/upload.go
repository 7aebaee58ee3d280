package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	uploadImage string
	uploadDir   string
	uploadSplit string
	uploadInfo  bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload images to the Roboflow project",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer func() {
			_ = log.Sync()
		}()

		client, err := newUploader()
		if err != nil {
			return err
		}

		if uploadInfo {
			info, err := client.ProjectInfo(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println("Project Information:")
			fmt.Printf("  name:     %s\n", info.Name)
			fmt.Printf("  type:     %s\n", info.Type)
			fmt.Printf("  images:   %d\n", info.Images)
			fmt.Printf("  versions: %d\n", info.Version)
		}

		switch {
		case uploadImage != "":
			if err := client.UploadImage(cmd.Context(), uploadImage, uploadSplit); err != nil {
				return fmt.Errorf("failed to upload %s: %w", uploadImage, err)
			}

			fmt.Printf("uploaded %s to %s split\n", uploadImage, uploadSplit)
			return nil

		case uploadDir != "":
			stats, err := client.UploadBatch(cmd.Context(), uploadDir, uploadSplit)
			if err != nil {
				return err
			}

			fmt.Printf("done: %d uploaded, %d failed (%d total)\n", stats.Success, stats.Failed, stats.Total)

			if stats.Failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", stats.Failed, stats.Total)
			}

			return nil

		case uploadInfo:
			return nil

		default:
			return fmt.Errorf("specify either --image or --directory")
		}
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadImage, "image", "", "Path to a single image to upload")
	uploadCmd.Flags().StringVar(&uploadDir, "directory", "", "Directory of images to upload")
	uploadCmd.Flags().StringVar(&uploadSplit, "split", "train", "Dataset split: train, valid or test")
	uploadCmd.Flags().BoolVar(&uploadInfo, "info", false, "Display project information")
	rootCmd.AddCommand(uploadCmd)
}
