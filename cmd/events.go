package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/locktime/internal/cli/handlers"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List completed sessions",
	Long: `List completed sessions, newest first. The number in brackets is the
event reference used by 'locktime log'.

Examples:
  locktime events                       All events
  locktime events --last 7              Events started in the last 7 days
  locktime events --from 2024-03-01 --to 2024-03-31
  locktime events --search shower       Events whose logbook mentions "shower"
  locktime events --unlocked --min 2d   Unlocked events lasting two days or more`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		from, to, last := rangeFlags(cmd)
		search, _ := cmd.Flags().GetString("search")
		unlocked, _ := cmd.Flags().GetBool("unlocked")
		minDuration, _ := cmd.Flags().GetString("min")
		handlers.Events(cmd.Context(), deps, from, to, last, search, unlocked, minDuration)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all completed sessions",
	Long: `Delete every completed session and every logbook entry. An active
session keeps running.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")
		handlers.Clear(cmd.Context(), deps, yes)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals and unlock reasons",
	Long: `Show the number of sessions, total and longest lock time, and how often
each unlock reason was given.

Examples:
  locktime stats
  locktime stats --last 30`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		from, to, last := rangeFlags(cmd)
		handlers.Stats(cmd.Context(), deps, from, to, last)
	},
}

// addRangeFlags adds --from, --to and --last to cmd.
func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "Start date (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().String("to", "", "End date (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().Int("last", 0, "Only the last N days, including today")
}

func rangeFlags(cmd *cobra.Command) (from, to string, last int) {
	from, _ = cmd.Flags().GetString("from")
	to, _ = cmd.Flags().GetString("to")
	last, _ = cmd.Flags().GetInt("last")
	return from, to, last
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(statsCmd)

	addRangeFlags(eventsCmd)
	eventsCmd.Flags().StringP("search", "s", "", "Only events whose logbook titles or notes contain this text")
	eventsCmd.Flags().Bool("unlocked", false, "Only events that were unlocked at least once")
	eventsCmd.Flags().String("min", "", "Only events lasting at least this long (e.g. 2h, 1h30m, 3d)")
	addRangeFlags(statsCmd)
	clearCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
