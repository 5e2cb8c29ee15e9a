// Package config loads todofetch configuration from JSONC files and flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/todofetch/internal/report"
	"github.com/calvinalkan/todofetch/internal/todo"
)

// Error variables for config loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrBaseURLEmpty       = errors.New("base-url cannot be empty")
	ErrBaseURLInvalid     = errors.New("base-url must be an absolute http(s) URL")
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrInvalidMaxBody     = errors.New("max_body_bytes must not be negative")
	ErrUnknownFormat      = report.ErrUnknownFormat
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	BaseURL      string   `json:"base_url,omitempty"`
	Timeout      Duration `json:"timeout,omitempty"`
	Format       string   `json:"format,omitempty"`
	UserAgent    string   `json:"user_agent,omitempty"`
	MaxBodyBytes int64    `json:"max_body_bytes,omitempty"`
	Verbose      bool     `json:"verbose,omitempty"`

	// Resolved (computed, not serialized)
	EffectiveCwd string `json:"-"`

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// fileConfig is one config file as written. Verbose is a pointer so an
// explicit false in a later file clears a true from an earlier one.
type fileConfig struct {
	BaseURL      string   `json:"base_url"`
	Timeout      Duration `json:"timeout"`
	Format       string   `json:"format"`
	UserAgent    string   `json:"user_agent"`
	MaxBodyBytes int64    `json:"max_body_bytes"`
	Verbose      *bool    `json:"verbose"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Duration is a time.Duration written as a Go duration string ("1.5s").
type Duration time.Duration

// UnmarshalJSON parses a duration string.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string

	err := json.Unmarshal(data, &s)
	if err != nil {
		return fmt.Errorf("%w: want a duration string like \"5s\"", ErrInvalidTimeout)
	}

	parsed, err := ParseTimeout(s)
	if err != nil {
		return err
	}

	*d = Duration(parsed)

	return nil
}

// MarshalJSON writes the duration string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// ParseTimeout parses a non-negative Go duration. "" and "0" mean no timeout.
func ParseTimeout(s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidTimeout, s)
	}

	if d < 0 {
		return 0, fmt.Errorf("%w: %s is negative", ErrInvalidTimeout, s)
	}

	return d, nil
}

// Default returns the default configuration. It reproduces a plain
// unconfigured fetch of the public todo endpoint.
func Default() Config {
	return Config{
		BaseURL:      todo.DefaultBaseURL,
		Format:       report.FormatText,
		UserAgent:    todo.DefaultUserAgent,
		MaxBodyBytes: todo.DefaultMaxBodyBytes,
	}
}

// FileName is the default project config file name.
const FileName = ".todofetch.json"

// globalPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/todofetch/config.json if set, otherwise
// ~/.config/todofetch/config.json. Returns empty string if neither is known.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "todofetch", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "todofetch", "config.json")
	}

	return ""
}

// Overrides holds values given on the command line. A nil pointer means the
// flag was not set.
type Overrides struct {
	BaseURL *string
	Timeout *time.Duration
	Format  *string
	Verbose *bool
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	Overrides       Overrides         // other global flags
	Env             map[string]string // environment variables
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/todofetch/config.json or $XDG_CONFIG_HOME/todofetch/config.json)
// 3. Project config file at default location (.todofetch.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty)
// 5. CLI overrides.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	} else if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("cannot resolve working directory: %w", err)
		}

		workDir = abs
	}

	cfg := Default()

	globalCfg, globalCfgPath, err := loadGlobal(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalCfgPath
	cfg = merge(cfg, globalCfg)

	projectCfg, projectCfgPath, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectCfgPath
	cfg = merge(cfg, projectCfg)

	cfg = applyOverrides(cfg, input.Overrides)

	err = validate(cfg)
	if err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	return cfg, nil
}

// loadGlobal loads the global user config file if it exists.
func loadGlobal(env map[string]string) (fileConfig, string, error) {
	path := globalPath(env)
	if path == "" {
		return fileConfig{}, "", nil
	}

	cfg, loaded, err := loadFile(path, false)
	if err != nil || !loaded {
		return fileConfig{}, "", err
	}

	return cfg, path, nil
}

// loadProject loads the project config file (.todofetch.json) or an explicit
// config file, which must exist.
func loadProject(workDir, configPath string) (fileConfig, string, error) {
	var (
		path      string
		mustExist bool
	)

	if configPath != "" {
		path = configPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		mustExist = true

		_, statErr := os.Stat(path)
		if statErr != nil {
			return fileConfig{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		path = filepath.Join(workDir, FileName)
	}

	cfg, loaded, err := loadFile(path, mustExist)
	if err != nil || !loaded {
		return fileConfig{}, "", err
	}

	return cfg, path, nil
}

// loadFile loads a config file. If mustExist is false, missing files return
// a zero config and loaded=false.
func loadFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if mustExist {
			return fileConfig{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return fileConfig{}, false, nil
	}

	cfg, parseErr := parse(data)
	if parseErr != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parse(data []byte) (fileConfig, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg fileConfig

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	return cfg, nil
}

func merge(base Config, overlay fileConfig) Config {
	if overlay.BaseURL != "" {
		base.BaseURL = overlay.BaseURL
	}

	if overlay.Timeout != 0 {
		base.Timeout = overlay.Timeout
	}

	if overlay.Format != "" {
		base.Format = overlay.Format
	}

	if overlay.UserAgent != "" {
		base.UserAgent = overlay.UserAgent
	}

	if overlay.MaxBodyBytes != 0 {
		base.MaxBodyBytes = overlay.MaxBodyBytes
	}

	if overlay.Verbose != nil {
		base.Verbose = *overlay.Verbose
	}

	return base
}

func applyOverrides(cfg Config, o Overrides) Config {
	if o.BaseURL != nil {
		cfg.BaseURL = *o.BaseURL
	}

	if o.Timeout != nil {
		cfg.Timeout = Duration(*o.Timeout)
	}

	if o.Format != nil {
		cfg.Format = *o.Format
	}

	if o.Verbose != nil {
		cfg.Verbose = *o.Verbose
	}

	return cfg
}

func validate(cfg Config) error {
	if cfg.BaseURL == "" {
		return ErrBaseURLEmpty
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s", ErrBaseURLInvalid, cfg.BaseURL)
	}

	if cfg.Timeout < 0 {
		return fmt.Errorf("%w: %s is negative", ErrInvalidTimeout, time.Duration(cfg.Timeout))
	}

	if cfg.MaxBodyBytes < 0 {
		return ErrInvalidMaxBody
	}

	return report.ValidateFormat(cfg.Format)
}
