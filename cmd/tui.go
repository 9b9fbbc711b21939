package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/locktime/internal/cli/handlers"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive timer",
	Long: `Launch the interactive terminal timer for the logged-in user.

The timer ticks every second and the terminal title shows the elapsed time.

Keyboard shortcuts:
  - s / x: Start or stop the session
  - p: Unlock (asks for the reason) or lock again
  - Tab/Shift+Tab or 1-4: Switch between timer, events, stats and config
  - Enter: Open the logbook of the selected event
  - n / d: Add or delete a logbook entry
  - ?: Show help
  - q: Quit`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.TUI(cmd.Context(), deps)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	// Add --tui flag to root command for quick access
	rootCmd.PersistentFlags().Bool("tui", false, "Launch interactive terminal UI")
}

// CheckTUIFlag checks if the --tui flag is set and runs the TUI if so.
// Returns true if the TUI was launched, false otherwise.
func CheckTUIFlag(cmd *cobra.Command) bool {
	tuiFlag, _ := cmd.Root().PersistentFlags().GetBool("tui")
	if tuiFlag {
		handlers.TUI(cmd.Context(), deps)
		return true
	}
	return false
}
