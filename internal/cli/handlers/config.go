package handlers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xolan/locktime/internal/cli"
	"github.com/xolan/locktime/internal/logging"
)

// ShowConfig displays the effective configuration.
func ShowConfig(deps *cli.Deps) {
	svc, err := deps.OpenServices()
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to load configuration")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check that your config file is valid TOML format")
		_, _ = fmt.Fprintln(deps.Stderr, "Valid backend values: file, kv")
		_, _ = fmt.Fprintln(deps.Stderr, "Valid log_level values: debug, info, warn, error")
		_, _ = fmt.Fprintln(deps.Stderr, "Valid timezone examples: Local, America/New_York, Europe/London, Asia/Tokyo")
		deps.Exit(1)
		return
	}
	defer closeServices(svc)

	cfg := svc.Config.Get()

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration for locktime")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 60))
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintf(deps.Stdout, "Config file:     %s\n", svc.Config.GetPath())
	if svc.Config.Exists() {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          File exists (using custom configuration)")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          File not found (using defaults)")
	}
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintln(deps.Stdout, "Current Settings:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	_, _ = fmt.Fprintf(deps.Stdout, "  backend:       %s\n", cfg.Backend)
	_, _ = fmt.Fprintf(deps.Stdout, "  data_dir:      %s\n", svc.Config.DataDir())
	_, _ = fmt.Fprintf(deps.Stdout, "  timezone:      %s\n", cfg.Timezone)
	_, _ = fmt.Fprintf(deps.Stdout, "  theme:         %s\n", cfg.Theme)
	_, _ = fmt.Fprintf(deps.Stdout, "  log_level:     %s\n", cfg.LogLevel)
	_, _ = fmt.Fprintf(deps.Stdout, "  log file:      %s\n", filepath.Join(svc.Config.DataDir(), logging.LogFile))
}

// InitConfig writes a commented sample config file.
func InitConfig(deps *cli.Deps) {
	svc, ok := open(deps)
	if !ok {
		return
	}
	defer closeServices(svc)

	if err := svc.Config.Init(); err != nil {
		failWith(deps, "Failed to create config file", err, "Edit the existing file or remove it first")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Created %s\n", svc.Config.GetPath())
}

// ConfigPath prints the config file location.
func ConfigPath(deps *cli.Deps) {
	svc, ok := open(deps)
	if !ok {
		return
	}
	defer closeServices(svc)
	_, _ = fmt.Fprintln(deps.Stdout, svc.Config.GetPath())
}
