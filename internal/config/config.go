package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	RoboflowAPIKey    string `mapstructure:"roboflow_api_key"`
	RoboflowWorkspace string `mapstructure:"roboflow_workspace"`
	RoboflowProject   string `mapstructure:"roboflow_project"`

	SharePointSite         string `mapstructure:"sharepoint_site"`
	SharePointTenant       string `mapstructure:"sharepoint_tenant"`
	SharePointClientID     string `mapstructure:"sharepoint_client_id"`
	SharePointClientSecret string `mapstructure:"sharepoint_client_secret"`
	SharePointUsername     string `mapstructure:"sharepoint_username"`
	SharePointPassword     string `mapstructure:"sharepoint_password"`

	LocalRoot  string   `mapstructure:"local_root"`
	RemoteRoot string   `mapstructure:"remote_root"`

	DaemonPort int      `mapstructure:"daemon_port"`
	BufferSize int      `mapstructure:"buffer_size"`
	DebounceMs int      `mapstructure:"debounce_ms"`
	IgnoreList []string `mapstructure:"ignore_list"`
	DBPath     string   `mapstructure:"db_path"`
}

var Default = Config{
	DaemonPort: 9301,
	BufferSize: 100,
	DebounceMs: 500,
	IgnoreList: []string{".git", ".DS_Store", "*.tmp", "*.swp"},
	DBPath:     "mlsync.db",
}

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}

	dir := filepath.Join(home, ".mlsync")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}

	return dir, nil
}

func Load() (*Config, error) {
	configDir, err := Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	viper.SetDefault("daemon_port", Default.DaemonPort)
	viper.SetDefault("buffer_size", Default.BufferSize)
	viper.SetDefault("debounce_ms", Default.DebounceMs)
	viper.SetDefault("ignore_list", Default.IgnoreList)
	viper.SetDefault("db_path", Default.DBPath)

	viper.SetEnvPrefix("MLSYNC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := errors.AsType[viper.ConfigFileNotFoundError](err); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Save persists credentials entered via `mlsync login`. The file holds
// secrets, so it is written owner-only.
func Save(cfg *Config) error {
	configDir, err := Dir()
	if err != nil {
		return err
	}

	viper.Set("roboflow_api_key", cfg.RoboflowAPIKey)
	viper.Set("roboflow_workspace", cfg.RoboflowWorkspace)
	viper.Set("roboflow_project", cfg.RoboflowProject)
	viper.Set("sharepoint_site", cfg.SharePointSite)
	viper.Set("sharepoint_tenant", cfg.SharePointTenant)
	viper.Set("sharepoint_client_id", cfg.SharePointClientID)
	viper.Set("sharepoint_client_secret", cfg.SharePointClientSecret)
	viper.Set("sharepoint_username", cfg.SharePointUsername)
	viper.Set("sharepoint_password", cfg.SharePointPassword)

	path := filepath.Join(configDir, "config.yaml")
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to chmod config file: %w", err)
	}

	return nil
}

// ValidateRoboflow checks the fields required by upload, download and
// sync-all before any network I/O happens.
func (c *Config) ValidateRoboflow() error {
	if c.RoboflowAPIKey == "" || c.RoboflowWorkspace == "" || c.RoboflowProject == "" {
		return errors.New("roboflow api key, workspace and project are required; run 'mlsync login' or set MLSYNC_ROBOFLOW_* variables")
	}

	return nil
}

// ValidateSharePoint checks the fields required to open a remote session.
func (c *Config) ValidateSharePoint() error {
	if c.SharePointSite == "" {
		return errors.New("sharepoint site url is required; run 'mlsync login' or set MLSYNC_SHAREPOINT_SITE")
	}

	hasApp := c.SharePointClientID != "" && c.SharePointClientSecret != ""
	hasUser := c.SharePointUsername != "" && c.SharePointPassword != ""
	if !hasApp && !hasUser {
		return errors.New("no valid sharepoint credentials provided: set either client id/secret or username/password")
	}

	return nil
}
