// Package config loads flywheel-hooks settings.
//
// Priority order: environment variables > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix        = "FLYWHEEL_"
	EnvDebug         = "FLYWHEEL_DEBUG"
	EnvLogFile       = "FLYWHEEL_LOG_FILE"
	EnvAutoInstall   = "FLYWHEEL_AUTO_INSTALL"
	EnvHost          = "FLYWHEEL_HOST"
	EnvXDGConfigHome = "XDG_CONFIG_HOME"
	ConfigDirName    = "flywheel"
	ConfigFileName   = "config.yaml"
	LogFileName      = "flywheel-hooks.log"

	DefaultInstallTimeout = 60 * time.Second
	DefaultProbeTimeout   = 5 * time.Second

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Config holds the hook configuration
type Config struct {
	Debug          bool          `koanf:"debug"`
	LogFile        string        `koanf:"log_file"`
	AutoInstall    bool          `koanf:"auto_install"`
	InstallTimeout time.Duration `koanf:"install_timeout"`
	ProbeTimeout   time.Duration `koanf:"probe_timeout"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LogFile:        filepath.Join(os.TempDir(), LogFileName),
		AutoInstall:    true,
		InstallTimeout: DefaultInstallTimeout,
		ProbeTimeout:   DefaultProbeTimeout,
	}
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.InstallTimeout <= 0 {
		return fmt.Errorf("install_timeout must be positive, got %s", c.InstallTimeout)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe_timeout must be positive, got %s", c.ProbeTimeout)
	}
	return nil
}

// ConfigDir returns the flywheel config directory, honouring XDG_CONFIG_HOME
func ConfigDir() string {
	if xdg := os.Getenv(EnvXDGConfigHome); xdg != "" {
		return filepath.Join(xdg, ConfigDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", ConfigDirName)
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, ConfigFileName)
}

// Load reads the config from the default path
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads the YAML file at path (if it exists) and applies
// FLYWHEEL_* environment overrides on top of the defaults.
func LoadFile(path string) (*Config, error) {
	k, err := loadFileKoanf(path)
	if err != nil {
		return nil, err
	}

	// FLYWHEEL_INSTALL_TIMEOUT -> install_timeout
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = Default().LogFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault never fails; hooks must keep running with a broken config file
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Set writes a single key to the config file at path, preserving other keys
func Set(path, key string, value interface{}) error {
	if path == "" {
		return os.ErrNotExist
	}

	k, err := loadFileKoanf(path)
	if err != nil {
		return err
	}
	if err := k.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	// Reject values that would make the next load fail
	probe := Default()
	if err := k.Unmarshal("", probe); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := probe.Validate(); err != nil {
		return err
	}

	data, err := k.Marshal(yaml.Parser())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Keys lists the settable config keys
func Keys() []string {
	return []string{"debug", "log_file", "auto_install", "install_timeout", "probe_timeout"}
}

func loadFileKoanf(path string) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if path == "" {
		return k, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return k, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %s", path, humanize.IBytes(maxConfigFileSize))
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return k, nil
}

// ParseValue converts a command-line string into the type stored under key
func ParseValue(key, raw string) (interface{}, error) {
	switch key {
	case "debug", "auto_install":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects a boolean, got %q", key, raw)
		}
		return b, nil
	case "install_timeout", "probe_timeout":
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects a duration like 30s, got %q", key, raw)
		}
		return d.String(), nil
	case "log_file":
		return raw, nil
	default:
		return nil, fmt.Errorf("unknown config key: %s. Supported: %v", key, Keys())
	}
}
