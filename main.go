package main

import (
	"fmt"
	"os"

	"github.com/xolan/locktime/cmd"
	"github.com/xolan/locktime/internal/config"
)

// Version information injected by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// exitFunc is replaced in tests.
var exitFunc = os.Exit

// run validates the config file before handing over to cobra and returns
// the process exit code.
func run() int {
	path, err := config.GetConfigPath()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: cannot locate config file: %v\n", err)
		return 1
	}
	if _, err := config.LoadOrDefault(path); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		_, _ = fmt.Fprintf(os.Stderr, "Hint: fix or remove %s, 'locktime config init' writes a fresh sample\n", path)
		return 1
	}

	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	exitFunc(run())
}
