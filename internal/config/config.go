// Package config provides configuration management for Focus Smile.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/focus-smile/internal/domain"
)

// Storage backends selectable with storage.backend.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

const defaultDataDir = "~/.focus-smile"

// Config holds all configuration for the Focus Smile application.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Storage       StorageConfig      `mapstructure:"storage"`
	AI            AIConfig           `mapstructure:"ai"`
	Log           LogConfig          `mapstructure:"log"`
}

// TimerConfig holds the duration table used before any timer state exists.
type TimerConfig struct {
	WorkDuration Duration `mapstructure:"work_duration"`
	ShortBreak   Duration `mapstructure:"short_break"`
	LongBreak    Duration `mapstructure:"long_break"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
	Backend string `mapstructure:"backend"`
}

// AIConfig holds Gemini settings. APIKey is the fallback used when no key
// has been stored with `smile key set`.
type AIConfig struct {
	Model      string   `mapstructure:"model"`
	ImageModel string   `mapstructure:"image_model"`
	RecapModel string   `mapstructure:"recap_model"`
	Timeout    Duration `mapstructure:"timeout"`
	APIKey     string   `mapstructure:"api_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			WorkDuration: Duration(25 * time.Minute),
			ShortBreak:   Duration(5 * time.Minute),
			LongBreak:    Duration(15 * time.Minute),
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
			Backend: BackendSQLite,
		},
		AI: AIConfig{
			Model:      domain.DefaultModel,
			ImageModel: "gemini-2.5-flash-image-preview",
			RecapModel: "imagen-4.0-generate-001",
			Timeout:    Duration(60 * time.Second),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads the configuration from the default config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath, creating the file with
// defaults when it does not exist.
func LoadFrom(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := ExpandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg to configPath as TOML.
func SaveTo(configPath string, cfg *Config) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("timer.work_duration", cfg.Timer.WorkDuration.String())
	v.Set("timer.short_break", cfg.Timer.ShortBreak.String())
	v.Set("timer.long_break", cfg.Timer.LongBreak.String())
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("ai.model", cfg.AI.Model)
	v.Set("ai.image_model", cfg.AI.ImageModel)
	v.Set("ai.recap_model", cfg.AI.RecapModel)
	v.Set("ai.timeout", cfg.AI.Timeout.String())
	v.Set("ai.api_key", cfg.AI.APIKey)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", domain.ErrConfiguration, c.Storage.Backend)
	}
	if err := c.TimerDurations().Validate(); err != nil {
		return fmt.Errorf("invalid [timer] section: %w", err)
	}
	return nil
}

// TimerDurations converts the [timer] section to a domain duration table.
func (c *Config) TimerDurations() domain.SessionDurations {
	return domain.DurationsFrom(
		time.Duration(c.Timer.WorkDuration),
		time.Duration(c.Timer.ShortBreak),
		time.Duration(c.Timer.LongBreak),
	)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".focus-smile", "config.toml"), nil
}

// GetDBPath returns the path to the SQLite database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "focus-smile.db")
}

// GetStoreDir returns the directory used by the file backend.
func GetStoreDir(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "store")
}

// GetImagesDir returns the directory generated images are saved to.
func GetImagesDir(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "images")
}

// GetLogPath returns the log file path.
func GetLogPath(cfg *Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(cfg.Storage.DataDir, "focus-smile.log")
}

// ExpandHome replaces a leading ~ with the user's home directory. An empty
// path expands to the default data directory.
func ExpandHome(path string) (string, error) {
	if path == "" {
		path = defaultDataDir
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	setDefaults(v)

	v.SetEnvPrefix("FOCUS_SMILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("ai.api_key", "FOCUS_SMILE_AI_API_KEY", "GEMINI_API_KEY")
	return v
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("timer.work_duration", defaults.Timer.WorkDuration.String())
	v.SetDefault("timer.short_break", defaults.Timer.ShortBreak.String())
	v.SetDefault("timer.long_break", defaults.Timer.LongBreak.String())
	v.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
	v.SetDefault("notifications.sound", defaults.Notifications.Sound)
	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	v.SetDefault("storage.backend", defaults.Storage.Backend)
	v.SetDefault("ai.model", defaults.AI.Model)
	v.SetDefault("ai.image_model", defaults.AI.ImageModel)
	v.SetDefault("ai.recap_model", defaults.AI.RecapModel)
	v.SetDefault("ai.timeout", defaults.AI.Timeout.String())
	v.SetDefault("ai.api_key", "")
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", "")
}
