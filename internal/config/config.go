// Package config manages the application configuration file. Settings
// live under ~/.config/spacesreader/config.yaml and may be overridden
// through SPACESREADER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	ConfigFileName = "config"
	ConfigFileType = "yaml"
	ConfigDirName  = "spacesreader"
	EnvPrefix      = "SPACESREADER"
)

// SpacesConfig holds the DigitalOcean Spaces connection settings.
type SpacesConfig struct {
	KeyID       string `mapstructure:"key_id" validate:"required"`
	SecretKey   string `mapstructure:"secret_key" validate:"required"`
	EndpointURL string `mapstructure:"endpoint_url" validate:"required,url"`
	Region      string `mapstructure:"region"`
	Bucket      string `mapstructure:"bucket" validate:"required"`
}

// LoadConfig holds the document-loading settings.
type LoadConfig struct {
	Key           string   `mapstructure:"key"`
	Prefix        string   `mapstructure:"prefix"`
	Recursive     bool     `mapstructure:"recursive"`
	FilenameAsID  bool     `mapstructure:"filename_as_id"`
	RequiredExts  []string `mapstructure:"required_exts"`
	NumFilesLimit int      `mapstructure:"num_files_limit" validate:"gte=0"`
	Workers       int      `mapstructure:"workers" validate:"gte=0"`
}

// Config is the full application configuration.
type Config struct {
	Spaces SpacesConfig `mapstructure:"spaces"`
	Load   LoadConfig   `mapstructure:"load"`
}

var validate = validator.New()

// Validate checks that the connection settings required for remote
// operations are present. Commands that never touch storage (e.g.
// config management) skip it.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ConfigManager reads and writes the configuration through viper.
type ConfigManager struct {
	v          *viper.Viper
	configPath string
}

func NewConfigManager() (*ConfigManager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error getting user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", ConfigDirName)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileType)
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees env-backed keys that are explicitly bound.
	for _, key := range []string{
		"spaces.key_id", "spaces.secret_key", "spaces.endpoint_url",
		"spaces.region", "spaces.bucket",
		"load.key", "load.prefix", "load.recursive", "load.filename_as_id",
		"load.required_exts", "load.num_files_limit", "load.workers",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment for %s: %w", key, err)
		}
	}

	v.SetDefault("load.recursive", true)
	v.SetDefault("load.filename_as_id", true)
	v.SetDefault("load.workers", 1)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file yet; env vars and 'config set' still work.
	}

	return &ConfigManager{
		v:          v,
		configPath: filepath.Join(configDir, ConfigFileName+"."+ConfigFileType),
	}, nil
}

// LoadConfig unmarshals the current settings. Validation is deferred to
// Config.Validate so that commands without remote access still run on an
// incomplete configuration.
func (m *ConfigManager) LoadConfig() (*Config, error) {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing configuration: %w", err)
	}
	return &cfg, nil
}

// SetValue stores a dotted key (e.g. "spaces.bucket") and persists the
// configuration file.
func (m *ConfigManager) SetValue(key, value string) error {
	m.v.Set(strings.ToLower(key), value)
	return m.write()
}

// GetValue retrieves a dotted key as a string.
func (m *ConfigManager) GetValue(key string) (string, bool) {
	key = strings.ToLower(key)
	if !m.v.IsSet(key) {
		return "", false
	}
	return m.v.GetString(key), true
}

// DeleteValue clears a dotted key. Returns false when the key had no
// value to begin with.
func (m *ConfigManager) DeleteValue(key string) (bool, error) {
	key = strings.ToLower(key)
	if m.v.GetString(key) == "" {
		return false, nil
	}

	m.v.Set(key, "")
	if err := m.write(); err != nil {
		return false, err
	}
	return true, nil
}

// GetAllSettings returns the nested settings map.
func (m *ConfigManager) GetAllSettings() map[string]any {
	return m.v.AllSettings()
}

// ConfigFilePath returns where settings are persisted.
func (m *ConfigManager) ConfigFilePath() string {
	return m.configPath
}

func (m *ConfigManager) write() error {
	if err := m.v.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
