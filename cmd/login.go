package cmd

import (
	"fmt"
	"mlsync/internal/config"

	"github.com/spf13/cobra"
)

var (
	loginAPIKey       string
	loginWorkspace    string
	loginProject      string
	loginSite         string
	loginTenant       string
	loginClientID     string
	loginClientSecret string
	loginUsername     string
	loginPassword     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store Roboflow and SharePoint credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginAPIKey == "" {
			fmt.Print("Enter your Roboflow API key: ")
			if _, err := fmt.Scan(&loginAPIKey); err != nil {
				return fmt.Errorf("failed to read api key: %w", err)
			}
		}

		cfg.RoboflowAPIKey = loginAPIKey
		if loginWorkspace != "" {
			cfg.RoboflowWorkspace = loginWorkspace
		}
		if loginProject != "" {
			cfg.RoboflowProject = loginProject
		}
		if loginSite != "" {
			cfg.SharePointSite = loginSite
		}
		if loginTenant != "" {
			cfg.SharePointTenant = loginTenant
		}
		if loginClientID != "" {
			cfg.SharePointClientID = loginClientID
		}
		if loginClientSecret != "" {
			cfg.SharePointClientSecret = loginClientSecret
		}
		if loginUsername != "" {
			cfg.SharePointUsername = loginUsername
		}
		if loginPassword != "" {
			cfg.SharePointPassword = loginPassword
		}

		if err := config.Save(cfg); err != nil {
			return err
		}

		fmt.Println("credentials saved to ~/.mlsync/config.yaml")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginAPIKey, "api-key", "", "Roboflow API key (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginWorkspace, "workspace", "", "Default Roboflow workspace")
	loginCmd.Flags().StringVar(&loginProject, "project", "", "Default Roboflow project")
	loginCmd.Flags().StringVar(&loginSite, "sharepoint-site", "", "SharePoint site URL")
	loginCmd.Flags().StringVar(&loginTenant, "sharepoint-tenant", "", "Azure AD tenant ID")
	loginCmd.Flags().StringVar(&loginClientID, "client-id", "", "Azure AD app client ID")
	loginCmd.Flags().StringVar(&loginClientSecret, "client-secret", "", "Azure AD app client secret")
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "SharePoint username")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "SharePoint password")
	rootCmd.AddCommand(loginCmd)
}
