package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the defaults applied to every assemble run.
type Config struct {
	MaxAge       time.Duration `env:"MAX_AGE"`
	MaxFiles     int           `env:"MAX_FILES"`
	Compact      bool          `env:"COMPACT"`
	ErrorDetails bool          `env:"ERROR_DETAILS"`
	Color        string        `env:"COLOR"`
	LogLevel     string        `env:"LOG_LEVEL"`
	MetricsFile  string        `env:"METRICS_FILE"`
	PrefsPath    string        `env:"PREFS_PATH"`
}

const (
	defaultConfigPath = "~/.config/assemble-logs/config.toml"
	defaultPrefsPath  = "~/.config/assemble-logs/prefs.toml"
	defaultMaxAge     = 7 * 24 * time.Hour
	defaultColor      = "always"
	defaultLogLevel   = "info"

	// EnvPrefix namespaces the environment overrides.
	EnvPrefix = "ASSEMBLE_LOGS_"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxAge:    defaultMaxAge,
		Color:     defaultColor,
		LogLevel:  defaultLogLevel,
		PrefsPath: mustExpand(defaultPrefsPath),
	}
}

// DefaultPath returns the config file consulted when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config file at path (or the default location), then applies
// ASSEMBLE_LOGS_* environment overrides. A missing file yields defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := readFile(resolved, &cfg); err != nil {
		return Config{}, err
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		MaxAge       string `toml:"max_age"`
		MaxFiles     *int   `toml:"max_files"`
		Compact      bool   `toml:"compact"`
		ErrorDetails bool   `toml:"error_details"`
		Color        string `toml:"color"`
		LogLevel     string `toml:"log_level"`
		MetricsFile  string `toml:"metrics_file"`
		PrefsPath    string `toml:"prefs_path"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if s := strings.TrimSpace(raw.MaxAge); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse config: max_age: %w", err)
		}
		cfg.MaxAge = d
	}
	if raw.MaxFiles != nil {
		cfg.MaxFiles = *raw.MaxFiles
	}
	cfg.Compact = raw.Compact
	cfg.ErrorDetails = raw.ErrorDetails
	if s := strings.TrimSpace(raw.Color); s != "" {
		cfg.Color = s
	}
	if s := strings.TrimSpace(raw.LogLevel); s != "" {
		cfg.LogLevel = s
	}
	cfg.MetricsFile = strings.TrimSpace(raw.MetricsFile)
	if s := strings.TrimSpace(raw.PrefsPath); s != "" {
		cfg.PrefsPath = s
	}
	return nil
}

func (c *Config) normalize() error {
	if c.MaxAge <= 0 {
		return fmt.Errorf("max_age must be positive, got %s", c.MaxAge)
	}
	if c.MaxFiles < 0 {
		return fmt.Errorf("max_files must not be negative, got %d", c.MaxFiles)
	}

	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if c.MetricsFile != "" {
		expanded, err := expandPath(c.MetricsFile)
		if err != nil {
			return fmt.Errorf("metrics_file: %w", err)
		}
		c.MetricsFile = expanded
	}
	c.PrefsPath = mustExpand(c.PrefsPath)
	return nil
}

// Level parses LogLevel for the slog handler.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
