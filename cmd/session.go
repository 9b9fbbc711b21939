package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/locktime/internal/cli/handlers"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a lock session",
	Long: `Start a new lock session, now or at an earlier time.

Examples:
  locktime start                        Start now
  locktime start --at 21:30             Today at 21:30 (yesterday if still ahead)
  locktime start --at "yesterday 22:00"
  locktime start --at "2024-03-01 21:30"
  locktime start --at "90m ago"`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		at, _ := cmd.Flags().GetString("at")
		handlers.Start(cmd.Context(), deps, at)
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the active session",
	Long:  `Stop the active session and record it as a completed event.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.Stop(cmd.Context(), deps)
	},
}

var pauseCmd = &cobra.Command{
	Use:   "pause <reason>",
	Short: "Unlock the device and record the reason",
	Long: `Pause the session clock. The reason is added to the session's
logbook as an "Unlock Reason" entry.

Example:
  locktime pause cleaning`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handlers.Pause(cmd.Context(), deps, strings.Join(args, " "))
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Lock again after a pause",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.Resume(cmd.Context(), deps)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active session",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.Status(cmd.Context(), deps)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(statusCmd)

	startCmd.Flags().String("at", "", "Start time (HH:MM, 'yesterday HH:MM', 'YYYY-MM-DD HH:MM', '90m ago')")
}
