package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

const (
	appName         = "tuido"
	storeFileName   = "todos.json"
	logFileName     = "tuido.log"
	configFileName  = "config.toml"
	defaultLogLevel = "info"
)

type Config struct {
	File      string              `toml:"file"`
	Theme     string              `toml:"theme"`
	ShowDates *bool               `toml:"show_dates"`
	Watch     bool                `toml:"watch"`
	Log       LogConfig           `toml:"log"`
	Keys      map[string][]string `toml:"keys"`
}

type LogConfig struct {
	File   string `toml:"file"`
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ConfigError reports an invalid config value
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}

	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	ErrEmptyPath     = errors.New("path is empty")
	ErrIsDirectory   = errors.New("path is a directory")
	ErrUnknownTheme  = errors.New("unknown theme")
	ErrUnknownAction = errors.New("unknown key action")
	ErrInvalidValue  = errors.New("invalid value")
)

var knownThemes = map[string]bool{
	"ascii":       true,
	"auto":        true,
	"dark":        true,
	"dracula":     true,
	"light":       true,
	"notty":       true,
	"pink":        true,
	"tokyo-night": true,
}

var knownLogFormats = map[string]bool{
	"":       true,
	"text":   true,
	"json":   true,
	"logfmt": true,
}

// showDates defaults to true when unset
func (c Config) showDates() bool {
	return c.ShowDates == nil || *c.ShowDates
}

func validateConfig(cfg Config) error {
	if cfg.Theme != "" && !knownThemes[cfg.Theme] {
		return &ConfigError{Field: "theme", Err: fmt.Errorf("%w: %q", ErrUnknownTheme, cfg.Theme)}
	}

	if cfg.Log.Level != "" {
		if _, err := log.ParseLevel(cfg.Log.Level); err != nil {
			return &ConfigError{Field: "log.level", Err: fmt.Errorf("%w: %q", ErrInvalidValue, cfg.Log.Level)}
		}
	}

	if !knownLogFormats[cfg.Log.Format] {
		return &ConfigError{Field: "log.format", Err: fmt.Errorf("%w: %q", ErrInvalidValue, cfg.Log.Format)}
	}

	keys := DefaultKeyMap()
	if err := keys.Apply(cfg.Keys); err != nil {
		return err
	}

	return nil
}

func configDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return configDir, nil
}

func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, configFileName), nil
}

func loadConfig() (Config, string, error) {
	path, err := configPath()

	if err != nil {
		return Config{}, "", err
	}

	cfg, err := loadConfigFrom(path)
	return cfg, path, err
}

// loadConfigFrom decodes the TOML file at path. A missing file yields the
// zero Config.
func loadConfigFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}

		return Config{}, err
	}

	var cfg Config

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, &ConfigError{Field: undecoded[0].String(), Err: fmt.Errorf("%w: unknown key", ErrInvalidValue)}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// resolveStorePath picks the task file: flag, then config, then
// <config-dir>/todos.json
func resolveStorePath(flagValue string, cfg Config) (string, error) {
	value := strings.TrimSpace(flagValue)
	field := "file"
	if value == "" {
		value = strings.TrimSpace(cfg.File)
	}

	if value == "" {
		dir, err := configDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, storeFileName), nil
	}

	path, err := expandPath(value)
	if err != nil {
		return "", &ConfigError{Field: field, Err: err}
	}

	if path == "" {
		return "", &ConfigError{Field: field, Err: ErrEmptyPath}
	}

	path, err = filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", &ConfigError{Field: field, Err: err}
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return "", &ConfigError{Field: field, Err: fmt.Errorf("%w: %s", ErrIsDirectory, path)}
	}

	return path, nil
}

// resolveLogPath returns the log file path, defaulting to
// <config-dir>/tuido/tuido.log
func resolveLogPath(cfg LogConfig) (string, error) {
	if strings.TrimSpace(cfg.File) == "" {
		dir, err := configDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName, logFileName), nil
	}

	return expandPath(cfg.File)
}

func expandPath(value string) (string, error) {
	value = strings.TrimSpace(value)

	if value == "" {
		return value, nil
	}

	expanded := os.ExpandEnv(value)

	if !strings.HasPrefix(expanded, "~") {
		return expanded, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if expanded == "~" {
		return homeDir, nil
	}

	if strings.HasPrefix(expanded, "~/") {
		return filepath.Join(homeDir, expanded[2:]), nil
	}

	if strings.HasPrefix(expanded, "~\\") {
		return filepath.Join(homeDir, expanded[2:]), nil
	}

	return expanded, nil
}
