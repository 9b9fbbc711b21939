package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/locktime/internal/cli/handlers"
)

var rootCmd = &cobra.Command{
	Use:   "locktime",
	Short: "A chastity session timer with a logbook",
	Long: `locktime tracks lock sessions: how long the device has been locked,
when and why it was unlocked, and a logbook of notes per session.

Usage:
  locktime                                  Show the active session
  locktime register <username>              Create an account
  locktime login [username] [--remember]    Log in
  locktime start [--at TIME]                Start a session
  locktime pause <reason>                   Unlock and record why
  locktime resume                           Lock again
  locktime stop                             End the session
  locktime events [--last N]                List completed sessions
  locktime stats [--last N]                 Totals and unlock reasons
  locktime log add <event> <title>          Add a logbook entry
  locktime tui                              Launch the interactive timer

Events are referenced by the number shown in 'locktime events', by
'active', or by their ISO start timestamp.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if CheckTUIFlag(cmd) {
			return
		}
		handlers.Status(cmd.Context(), deps)
	},
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"locktime version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
