package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/xolan/locktime/internal/osutil"
)

// Helper to create a temporary config file
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "config.toml")
	// Always write the file, even if content is empty
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}
	return tmpFile
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Backend != BackendFile {
		t.Errorf("DefaultConfig().Backend = %q, expected %q", cfg.Backend, BackendFile)
	}
	if cfg.Timezone != "Local" {
		t.Errorf("DefaultConfig().Timezone = %q, expected %q", cfg.Timezone, "Local")
	}
	if cfg.Theme != "dracula" {
		t.Errorf("DefaultConfig().Theme = %q, expected %q", cfg.Theme, "dracula")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("DefaultConfig().LogLevel = %q, expected %q", cfg.LogLevel, "info")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() is invalid: %v", err)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
		expected      Config
	}{
		{
			name: "all fields set",
			configContent: `backend = "kv"
data_dir = "/tmp/locktime"
timezone = "America/New_York"
theme = "nord"
log_level = "debug"`,
			expected: Config{Backend: "kv", DataDir: "/tmp/locktime", Timezone: "America/New_York", Theme: "nord", LogLevel: "debug"},
		},
		{
			name:          "empty file uses defaults",
			configContent: ``,
			expected:      DefaultConfig(),
		},
		{
			name:          "partial file",
			configContent: `timezone = "Europe/London"`,
			expected:      Config{Backend: "file", Timezone: "Europe/London", Theme: "dracula", LogLevel: "info"},
		},
		{
			name: "mixed case normalized",
			configContent: `backend = " KV "
log_level = "WARN"
theme = "Dracula"`,
			expected: Config{Backend: "kv", Timezone: "Local", Theme: "dracula", LogLevel: "warn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(createTempConfigFile(t, tt.configContent))
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("Load() = %+v, expected %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does_not_exist.toml"))
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
		wantErr       string
	}{
		{"bad toml", `backend = `, "parsing"},
		{"unknown key", `week_start_day = "monday"`, "unknown keys"},
		{"bad backend", `backend = "postgres"`, "backend must be"},
		{"bad timezone", `timezone = "Mars/Olympus"`, "invalid timezone"},
		{"bad log level", `log_level = "loud"`, "log_level must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(createTempConfigFile(t, tt.configContent))
			if err == nil {
				t.Fatal("Load() should return error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, expected to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadOrDefault() = %+v, expected defaults", cfg)
	}

	cfg, err = LoadOrDefault(createTempConfigFile(t, `backend = "kv"`))
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if cfg.Backend != BackendKV {
		t.Errorf("Backend = %q, expected kv", cfg.Backend)
	}

	if _, err := LoadOrDefault(createTempConfigFile(t, `backend = "x"`)); err == nil {
		t.Error("LoadOrDefault() should surface validation errors")
	}
}

func TestLoadOrDefault_PermissionError(t *testing.T) {
	tmpFile := createTempConfigFile(t, `backend = "file"`)

	if err := os.Chmod(tmpFile, 0000); err != nil {
		t.Skipf("Cannot change file permissions: %v", err)
	}
	defer func() { _ = os.Chmod(tmpFile, 0644) }()

	if os.Geteuid() == 0 {
		t.Skip("root can read unreadable files")
	}
	if _, err := LoadOrDefault(tmpFile); err == nil {
		t.Error("LoadOrDefault() should return error for unreadable file")
	}
}

func TestNormalize_FillsDefaults(t *testing.T) {
	cfg := Config{}
	cfg.Normalize()
	if cfg != DefaultConfig() {
		t.Errorf("Normalize() on zero Config = %+v, expected defaults", cfg)
	}
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	loc, err := cfg.Location()
	if err != nil || loc == nil {
		t.Fatalf("Location() = %v, %v", loc, err)
	}

	cfg.Timezone = "Asia/Tokyo"
	loc, err = cfg.Location()
	if err != nil {
		t.Fatalf("Location() error: %v", err)
	}
	if loc.String() != "Asia/Tokyo" {
		t.Errorf("Location() = %s", loc)
	}
}

func TestResolveDataDir(t *testing.T) {
	defer osutil.ResetProvider()
	root := t.TempDir()
	osutil.SetProvider(osutil.DirProvider{ConfigDir: filepath.Join(root, "cfg"), HomeDir: filepath.Join(root, "home")})

	tests := []struct {
		name    string
		dataDir string
		want    string
	}{
		{"default", "", filepath.Join(root, "cfg", "locktime")},
		{"absolute", filepath.Join(root, "data"), filepath.Join(root, "data")},
		{"home relative", "~/lt", filepath.Join(root, "home", "lt")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{DataDir: tt.dataDir}
			got, err := cfg.ResolveDataDir()
			if err != nil {
				t.Fatalf("ResolveDataDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveDataDir() = %q, expected %q", got, tt.want)
			}
			if info, err := os.Stat(got); err != nil || !info.IsDir() {
				t.Errorf("data dir not created: %v", err)
			}
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	want := Config{Backend: "kv", DataDir: "/srv/lt", Timezone: "UTC", Theme: "nord", LogLevel: "error"}
	content, err := Encode(want)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	var got Config
	if _, err := toml.Decode(content, &got); err != nil {
		t.Fatalf("decoding encoded config: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, expected %+v", got, want)
	}
}

func TestGenerateSampleConfig(t *testing.T) {
	content := GenerateSampleConfig()

	expectedStrings := []string{
		"# locktime configuration file",
		"# backend",
		"# data_dir",
		"# timezone",
		"# theme",
		"# log_level",
		"America/New_York",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(content, expected) {
			t.Errorf("GenerateSampleConfig() missing expected content: %q", expected)
		}
	}

	// Every setting is commented out, so the sample decodes to defaults
	path := createTempConfigFile(t, content)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(sample) error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("sample config = %+v, expected defaults", cfg)
	}
}

func TestGetConfigPath(t *testing.T) {
	defer osutil.ResetProvider()
	root := t.TempDir()
	osutil.SetProvider(osutil.DirProvider{ConfigDir: root})

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error: %v", err)
	}
	if path != filepath.Join(root, "locktime", "config.toml") {
		t.Errorf("GetConfigPath() = %q", path)
	}
}

func TestGetConfigPath_UserConfigDirError(t *testing.T) {
	defer osutil.ResetProvider()

	osutil.SetProvider(&mockPathProvider{
		userConfigDirFn: func() (string, error) {
			return "", os.ErrPermission
		},
	})

	if _, err := GetConfigPath(); err == nil {
		t.Error("GetConfigPath() should return error when UserConfigDir fails")
	}
}

func TestGetConfigPath_MkdirAllError(t *testing.T) {
	defer osutil.ResetProvider()
	tmpDir := t.TempDir()

	osutil.SetProvider(&mockPathProvider{
		userConfigDirFn: func() (string, error) {
			return tmpDir, nil
		},
		mkdirAllFn: func(path string, perm os.FileMode) error {
			return os.ErrPermission
		},
	})

	if _, err := GetConfigPath(); err == nil {
		t.Error("GetConfigPath() should return error when MkdirAll fails")
	}
}

// mockPathProvider is a test helper for mocking osutil.PathProvider
type mockPathProvider struct {
	userConfigDirFn func() (string, error)
	mkdirAllFn      func(path string, perm os.FileMode) error
}

func (m *mockPathProvider) UserConfigDir() (string, error) {
	if m.userConfigDirFn != nil {
		return m.userConfigDirFn()
	}
	return "", nil
}

func (m *mockPathProvider) UserHomeDir() (string, error) {
	return "", nil
}

func (m *mockPathProvider) MkdirAll(path string, perm os.FileMode) error {
	if m.mkdirAllFn != nil {
		return m.mkdirAllFn(path, perm)
	}
	return nil
}
