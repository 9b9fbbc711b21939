package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/locktime/internal/cli/handlers"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or manage configuration settings",
	Long: `Display the current effective configuration settings for locktime.

locktime works without a configuration file. All settings have defaults:
  - backend: file
  - data_dir: (the locktime config directory)
  - timezone: Local
  - theme: dracula
  - log_level: info

Configuration file location:
  ~/.config/locktime/config.toml          Linux
  %APPDATA%\locktime\config.toml          Windows`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.ShowConfig(deps)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented sample config file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.InitConfig(deps)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.ConfigPath(deps)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}
