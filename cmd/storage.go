package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xolan/locktime/internal/cli/handlers"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check stored state health",
	Long:  `Load the current user's stored state and report any problems found.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.Validate(cmd.Context(), deps)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate [username...]",
	Short: "Copy state between storage backends",
	Long: `Copy tracker state from one backend to the other. Without usernames
every user found in the source backend is copied.

Example:
  locktime migrate --from file --to kv`,
	Run: func(cmd *cobra.Command, args []string) {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		handlers.Migrate(cmd.Context(), deps, from, to, args, overwrite)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore [backup_number]",
	Short: "Restore from a backup file",
	Long: `Restore the current user's state file from a backup. The file
backend keeps the last 3 versions.

Examples:
  locktime restore --list   List backups
  locktime restore          Restore from most recent backup
  locktime restore 2        Restore from backup #2`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		list, _ := cmd.Flags().GetBool("list")
		n := 1
		if list {
			n = 0
		} else if len(args) > 0 {
			num, err := strconv.Atoi(args[0])
			if err != nil {
				_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid backup number '%s'\n", args[0])
				deps.Exit(1)
				return
			}
			n = num
		}
		handlers.Restore(cmd.Context(), deps, n)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export completed sessions",
	Long: `Export completed sessions with their logbooks as JSON or CSV.

Examples:
  locktime export                           JSON to stdout
  locktime export --format csv -o events.csv
  locktime export --last 30`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		from, to, last := rangeFlags(cmd)
		handlers.Export(cmd.Context(), deps, format, output, from, to, last)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(exportCmd)

	migrateCmd.Flags().String("from", "", "Source backend (file or kv)")
	migrateCmd.Flags().String("to", "", "Target backend (file or kv)")
	migrateCmd.Flags().Bool("overwrite", false, "Replace state already in the target")
	_ = migrateCmd.MarkFlagRequired("from")
	_ = migrateCmd.MarkFlagRequired("to")

	restoreCmd.Flags().BoolP("list", "l", false, "Only list the available backups")

	exportCmd.Flags().StringP("format", "f", "json", "Output format (json or csv)")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	addRangeFlags(exportCmd)
}
