package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ServerConfig holds settings for the taskflowd REST service.
type ServerConfig struct {
	// Addr is the listen address (host:port).
	Addr string `mapstructure:"addr" yaml:"addr"`

	// DBPath is the SQLite database file location.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// SessionTTLHours is how long an issued session token stays valid.
	SessionTTLHours int `mapstructure:"session_ttl_hours" yaml:"session_ttl_hours"`
}

// ClientConfig holds settings for the taskflow terminal client.
type ClientConfig struct {
	// APIBaseURL is the root URL of the taskflowd service.
	APIBaseURL string `mapstructure:"api_base_url" yaml:"api_base_url"`

	// NotifyIntervalSec is how often the due-date scanner runs.
	NotifyIntervalSec int `mapstructure:"notify_interval_sec" yaml:"notify_interval_sec"`

	// NotifyDedupe suppresses repeat due-date notifications for the
	// same task and condition within the same day.
	NotifyDedupe bool `mapstructure:"notify_dedupe" yaml:"notify_dedupe"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Client ClientConfig `mapstructure:"client" yaml:"client"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskflow/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskflow", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Addr:            "localhost:5000",
			DBPath:          defaultDBPath(),
			SessionTTLHours: 24,
		},
		Client: ClientConfig{
			APIBaseURL:        "http://localhost:5000",
			NotifyIntervalSec: 86400,
			NotifyDedupe:      false,
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "taskflow.db"
	}
	return filepath.Join(home, ".config", "taskflow", "taskflow.db")
}

// Load reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("server.addr", "localhost:5000")
	v.SetDefault("server.db_path", defaultDBPath())
	v.SetDefault("server.session_ttl_hours", 24)
	v.SetDefault("client.api_base_url", "http://localhost:5000")
	v.SetDefault("client.notify_interval_sec", 86400)
	v.SetDefault("client.notify_dedupe", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func Save(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("client", cfg.Client)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
