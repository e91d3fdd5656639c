// Package config handles configuration management using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Compositor CompositorConfig `mapstructure:"compositor"`
	Output     OutputConfig     `mapstructure:"output"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// CompositorConfig controls the embedded Wayland server core
type CompositorConfig struct {
	SocketBase        string `mapstructure:"socket_base"`         // candidate name prefix, e.g. "wayland"
	SocketSearchRange int    `mapstructure:"socket_search_range"` // how many names bind-auto tries
	RuntimeDir        string `mapstructure:"runtime_dir"`         // empty means $XDG_RUNTIME_DIR
	DestroyQueueCap   int    `mapstructure:"destroy_queue_cap"`   // pending destroy-global requests
}

// OutputConfig describes the presentation target reported to clients
type OutputConfig struct {
	Name       string `mapstructure:"name"`
	Width      int32  `mapstructure:"width"`
	Height     int32  `mapstructure:"height"`
	RefreshMHz int32  `mapstructure:"refresh_mhz"`
	Scale      int32  `mapstructure:"scale"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Compositor: CompositorConfig{
			SocketBase:        "wayland",
			SocketSearchRange: 33,
			RuntimeDir:        "",
			DestroyQueueCap:   8,
		},
		Output: OutputConfig{
			Name:       "veil-0",
			Width:      1920,
			Height:     1080,
			RefreshMHz: 60000,
			Scale:      1,
		},
		Logging: LoggingConfig{
			LogLevel: "",
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("veil")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		if home := os.Getenv("HOME"); home != "" {
			viper.AddConfigPath(filepath.Join(home, ".config", "veil"))
		}
		viper.AddConfigPath("/etc/veil")
		viper.AddConfigPath(".")
	}

	viper.SetDefault("compositor.socket_base", DefaultConfig.Compositor.SocketBase)
	viper.SetDefault("compositor.socket_search_range", DefaultConfig.Compositor.SocketSearchRange)
	viper.SetDefault("compositor.runtime_dir", DefaultConfig.Compositor.RuntimeDir)
	viper.SetDefault("compositor.destroy_queue_cap", DefaultConfig.Compositor.DestroyQueueCap)

	viper.SetDefault("output.name", DefaultConfig.Output.Name)
	viper.SetDefault("output.width", DefaultConfig.Output.Width)
	viper.SetDefault("output.height", DefaultConfig.Output.Height)
	viper.SetDefault("output.refresh_mhz", DefaultConfig.Output.RefreshMHz)
	viper.SetDefault("output.scale", DefaultConfig.Output.Scale)

	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		return &DefaultConfig
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}
