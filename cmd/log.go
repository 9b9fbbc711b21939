package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/xolan/locktime/internal/cli/handlers"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Manage session logbooks",
	Long: `Each session has its own logbook. <event> is the number shown by
'locktime events', 'active', or the session's ISO start timestamp.`,
}

var logAddCmd = &cobra.Command{
	Use:   "add <event> <title>",
	Short: "Add a logbook entry",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		note, _ := cmd.Flags().GetString("note")
		handlers.AddNote(cmd.Context(), deps, args[0], strings.Join(args[1:], " "), note)
	},
}

var logListCmd = &cobra.Command{
	Use:     "list [event]",
	Aliases: []string{"ls"},
	Short:   "List logbook entries, newest first",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ref := "active"
		if len(args) > 0 {
			ref = args[0]
		}
		handlers.ListNotes(cmd.Context(), deps, ref)
	},
}

var logDeleteCmd = &cobra.Command{
	Use:     "delete <event> <entry>",
	Aliases: []string{"rm"},
	Short:   "Delete a logbook entry",
	Long: `Delete one logbook entry. <entry> is its number in 'locktime log list'
or its id. Entries of other sessions are never touched.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		handlers.DeleteNote(cmd.Context(), deps, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
	logCmd.AddCommand(logAddCmd)
	logCmd.AddCommand(logListCmd)
	logCmd.AddCommand(logDeleteCmd)

	logAddCmd.Flags().StringP("note", "n", "", "Note text")

	for _, c := range []*cobra.Command{logAddCmd, logListCmd, logDeleteCmd} {
		c.ValidArgsFunction = completeEventRefs
	}
}
