// Package config loads pulsetimer's YAML config and resolves its data
// directory.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ColeHockerApps/pulsetimer/internal/pace"
)

const (
	appName  = "pulsetimer"
	fileName = "config.yaml"

	EnvHome  = "PULSETIMER_HOME"
	EnvUnits = "PULSETIMER_UNITS"
	EnvDB    = "PULSETIMER_DB"
)

type Config struct {
	DBPath       string        `yaml:"db_path"`
	Units        pace.Unit     `yaml:"units"`
	TickInterval time.Duration `yaml:"tick_interval"`
	LogLevel     string        `yaml:"log_level"`
	Bell         bool          `yaml:"bell"`
}

func Default() Config {
	return Config{
		DBPath:       DefaultDBPath(),
		Units:        pace.Kilometers,
		TickInterval: 100 * time.Millisecond,
		LogLevel:     "info",
		Bell:         true,
	}
}

// DataDir returns $PULSETIMER_HOME when set, otherwise the OS default:
//
//   - macOS:   ~/Library/Application Support/pulsetimer
//   - Linux:   $XDG_DATA_HOME/pulsetimer (fallback ~/.local/share/pulsetimer)
//   - Windows: %LOCALAPPDATA%\pulsetimer (fallback %APPDATA%\pulsetimer)
func DataDir() string {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir
	}
	return dataDirForOS(runtime.GOOS)
}

func dataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, appName)
		}
		if dir := os.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, appName)
		}
		return filepath.Join(home, appName)
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, appName)
		}
		return filepath.Join(home, ".local", "share", appName)
	}
}

func DefaultDBPath() string { return filepath.Join(DataDir(), appName+".db") }

func DefaultPath() string { return filepath.Join(DataDir(), fileName) }

func LogPath() string { return filepath.Join(DataDir(), appName+".log") }

// Load reads path over the defaults. A missing file is not an error.
// Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

// Save writes cfg to path, creating its directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvUnits); v != "" {
		c.Units = pace.Unit(v)
	}
	if v := os.Getenv(EnvDB); v != "" {
		c.DBPath = v
	}
}

func (c *Config) normalize() {
	c.Units = pace.ParseUnit(string(c.Units))
	if c.DBPath == "" {
		c.DBPath = DefaultDBPath()
	}
	if c.TickInterval < 10*time.Millisecond {
		c.TickInterval = 100 * time.Millisecond
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if _, err := ParseLevel(c.LogLevel); err != nil {
		c.LogLevel = "info"
	}
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}
