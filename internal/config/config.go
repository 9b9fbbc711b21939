package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/xolan/locktime/internal/osutil"
)

const (
	// AppName is the application name used for config directory
	AppName = "locktime"
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"
)

// Storage backends
const (
	// BackendFile stores one desktop-schema JSON file per user
	BackendFile = "file"
	// BackendKV stores web-schema keys in a SQLite key-value table
	BackendKV = "kv"
)

// Log levels accepted in log_level
var logLevels = []string{"debug", "info", "warn", "error"}

// Config represents the application configuration
type Config struct {
	// Backend selects where tracker state is persisted ("file" or "kv")
	Backend string `toml:"backend"`
	// DataDir holds user state, the account store and the log file.
	// Empty means the application config directory.
	DataDir string `toml:"data_dir"`
	// Timezone defines the timezone for displayed times (IANA timezone name, e.g., "America/New_York")
	Timezone string `toml:"timezone"`
	// Theme is the bubbletint id used by the TUI
	Theme string `toml:"theme"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns a Config with sensible defaults.
// - backend: "file"
// - data_dir: "" (application config directory)
// - timezone: "Local" (use system local timezone)
// - theme: "dracula"
// - log_level: "info"
func DefaultConfig() Config {
	return Config{
		Backend:  BackendFile,
		DataDir:  "",
		Timezone: "Local",
		Theme:    "dracula",
		LogLevel: "info",
	}
}

// Normalize trims values, lowercases enumerations and fills empty fields
// with their defaults.
func (c *Config) Normalize() {
	def := DefaultConfig()
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	c.DataDir = strings.TrimSpace(c.DataDir)
	c.Timezone = strings.TrimSpace(c.Timezone)
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	if c.Theme == "" {
		c.Theme = def.Theme
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// Validate checks the configuration values. Call Normalize first.
func (c *Config) Validate() error {
	var errs []error
	if c.Backend != BackendFile && c.Backend != BackendKV {
		errs = append(errs, fmt.Errorf("backend must be %q or %q, got %q", BackendFile, BackendKV, c.Backend))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	valid := false
	for _, l := range logLevels {
		if c.LogLevel == l {
			valid = true
		}
	}
	if !valid {
		errs = append(errs, fmt.Errorf("log_level must be one of %s, got %q", strings.Join(logLevels, ", "), c.LogLevel))
	}
	return errors.Join(errs...)
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ResolveDataDir returns DataDir, or the application config directory when
// it is empty. A leading ~ is expanded. The directory is created.
func (c *Config) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		appDir, err := GetAppDir()
		if err != nil {
			return "", err
		}
		return appDir, nil
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := osutil.Provider.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	if err := osutil.Provider.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetAppDir returns the application directory below os.UserConfigDir,
// creating it if needed.
func GetAppDir() (string, error) {
	configDir, err := osutil.Provider.UserConfigDir()
	if err != nil {
		return "", err
	}

	appDir := filepath.Join(configDir, AppName)

	// Create config directory if it doesn't exist
	if err := osutil.Provider.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}
	return appDir, nil
}

// GetConfigPath returns the path to the config file.
// Uses os.UserConfigDir() for cross-platform XDG-compliant config directory.
// Creates the config directory if it doesn't exist.
func GetConfigPath() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, ConfigFile), nil
}

// Load reads and validates the config file at path. Keys absent from the
// file keep their defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, returning DefaultConfig when the file does
// not exist. Any other error is returned.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}
	return Load(path)
}

// Encode renders cfg as a TOML document.
func Encode(cfg Config) (string, error) {
	var b strings.Builder
	b.WriteString("# locktime configuration file\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return "", err
	}
	return b.String(), nil
}

// GenerateSampleConfig returns a commented config file documenting every key.
func GenerateSampleConfig() string {
	return `# locktime configuration file
#
# Uncomment and edit the settings you want to change.

# Storage backend: "file" (one timer-data.json per user) or "kv" (SQLite key-value store)
# backend = "file"

# Directory for user data, the account store and locktime.log.
# Defaults to the locktime config directory.
# data_dir = "~/locktime"

# Timezone for displayed times: IANA timezone name or "Local"
# Examples: "America/New_York", "Europe/London", "Asia/Tokyo"
# timezone = "Local"

# TUI color theme (any bubbletint id, e.g. "dracula", "nord", "gruvbox_dark")
# theme = "dracula"

# Log level: "debug", "info", "warn" or "error"
# log_level = "info"
`
}
