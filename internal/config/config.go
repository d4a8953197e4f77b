package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"
)

// Storage backends.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Config holds the herospath settings after defaults and path expansion.
type Config struct {
	Capacity     int
	Interval     time.Duration
	Storage      string
	HistoryPath  string
	SQLitePath   string
	Workspace    string
	Highlight    bool
	DiffTimeout  time.Duration
	ServeAddr    string
	LogPath      string
	SaveDebounce time.Duration
}

const (
	appName           = "herospath"
	defaultConfigPath = "~/.config/herospath/config.toml"
	defaultCapacity   = 1000
	defaultIntervalMS = 100
	defaultTimeoutMS  = 1000
	defaultDebounceMS = 250
	defaultServeAddr  = "127.0.0.1:7489"
	historyFileName   = "snapshots.json"
	sqliteFileName    = "history.db"
	logFileName       = "herospath.log"
)

type rawConfig struct {
	Capacity       *int   `toml:"capacity"`
	IntervalMS     *int   `toml:"interval_ms"`
	Storage        string `toml:"storage"`
	HistoryPath    string `toml:"history_path"`
	SQLitePath     string `toml:"sqlite_path"`
	Workspace      string `toml:"workspace"`
	Highlight      *bool  `toml:"highlight"`
	DiffTimeoutMS  *int   `toml:"diff_timeout_ms"`
	ServeAddr      string `toml:"serve_addr"`
	LogPath        string `toml:"log_path"`
	SaveDebounceMS *int   `toml:"save_debounce_ms"`
}

// Default returns the configuration used when no file exists.
func Default() (Config, error) {
	return fromRaw(rawConfig{})
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default()
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw rawConfig) (Config, error) {
	cfg := Config{
		Capacity:     positiveOr(raw.Capacity, defaultCapacity),
		Interval:     millis(positiveOr(raw.IntervalMS, defaultIntervalMS)),
		Highlight:    true,
		DiffTimeout:  millis(defaultTimeoutMS),
		SaveDebounce: millis(positiveOr(raw.SaveDebounceMS, defaultDebounceMS)),
	}
	if raw.Highlight != nil {
		cfg.Highlight = *raw.Highlight
	}
	// A negative timeout disables the diff time limit.
	if raw.DiffTimeoutMS != nil && *raw.DiffTimeoutMS != 0 {
		cfg.DiffTimeout = millis(*raw.DiffTimeoutMS)
	}

	cfg.Storage = strings.ToLower(strings.TrimSpace(raw.Storage))
	switch cfg.Storage {
	case "":
		cfg.Storage = StorageFile
	case StorageFile, StorageSQLite:
	default:
		return Config{}, fmt.Errorf("parse config: unknown storage %q (want %q or %q)", raw.Storage, StorageFile, StorageSQLite)
	}

	cfg.ServeAddr = strings.TrimSpace(raw.ServeAddr)
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = defaultServeAddr
	}

	var err error
	if cfg.Workspace, err = pathOr(raw.Workspace, "."); err != nil {
		return Config{}, fmt.Errorf("resolve workspace: %w", err)
	}
	if cfg.HistoryPath, err = pathOr(raw.HistoryPath, filepath.Join(cfg.Workspace, historyFileName)); err != nil {
		return Config{}, fmt.Errorf("resolve history_path: %w", err)
	}
	if cfg.SQLitePath, err = pathOr(raw.SQLitePath, filepath.Join(xdg.DataHome, appName, sqliteFileName)); err != nil {
		return Config{}, fmt.Errorf("resolve sqlite_path: %w", err)
	}
	if cfg.LogPath, err = pathOr(raw.LogPath, filepath.Join(xdg.StateHome, appName, logFileName)); err != nil {
		return Config{}, fmt.Errorf("resolve log_path: %w", err)
	}
	return cfg, nil
}

// WithWorkspace returns a copy rooted at dir. A history path derived from the
// old workspace moves along with it.
func (c Config) WithWorkspace(dir string) (Config, error) {
	abs, err := expandPath(dir)
	if err != nil {
		return c, fmt.Errorf("resolve workspace: %w", err)
	}
	if c.HistoryPath == filepath.Join(c.Workspace, historyFileName) {
		c.HistoryPath = filepath.Join(abs, historyFileName)
	}
	c.Workspace = abs
	return c, nil
}

func positiveOr(v *int, def int) int {
	if v == nil || *v <= 0 {
		return def
	}
	return *v
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func pathOr(value, def string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return expandPath(def)
	}
	return expandPath(value)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
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
