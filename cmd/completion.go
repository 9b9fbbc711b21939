package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xolan/locktime/internal/cli"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate a shell completion script for locktime. Event arguments of
'locktime log' complete to the logged-in user's event numbers.

Examples:
  source <(locktime completion bash)
  locktime completion zsh > "${fpath[1]}/_locktime"
  locktime completion fish > ~/.config/fish/completions/locktime.fish
  locktime completion powershell | Out-String | Invoke-Expression`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.ExactValidArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		generateCompletion(args[0])
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// generateCompletion generates the appropriate completion script based on shell type
func generateCompletion(shell string) {
	var err error

	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletion(deps.Stdout)
	case "zsh":
		err = rootCmd.GenZshCompletion(deps.Stdout)
	case "fish":
		err = rootCmd.GenFishCompletion(deps.Stdout, true)
	case "powershell":
		err = rootCmd.GenPowerShellCompletionWithDesc(deps.Stdout)
	default:
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Unsupported shell '%s'\n", shell)
		_, _ = fmt.Fprintln(deps.Stderr, "Supported shells: bash, zsh, fish, powershell")
		deps.Exit(1)
		return
	}

	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to generate %s completion: %v\n", shell, err)
		deps.Exit(1)
		return
	}
}

// completeEventRefs completes the first argument of the log commands with
// "active" and the event numbers of 'locktime events'. Errors complete
// nothing.
func completeEventRefs(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, err := deps.OpenServices()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer func() { _ = svc.Close() }()

	user, err := svc.Account.Current(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	list, err := svc.Tracker.Events(ctx, user, time.Time{}, time.Time{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg := svc.Config.Get()
	loc, err := cfg.Location()
	if err != nil {
		loc = time.Local
	}

	refs := make([]string, 0, len(list.Events)+1)
	if list.Active != nil {
		refs = append(refs, "active\tstarted "+cli.FormatTimestamp(list.Active.StartDate, loc))
	}
	for _, ie := range list.Events {
		refs = append(refs, fmt.Sprintf("%d\t%s  %s", ie.Index, cli.FormatTimestamp(ie.Event.StartDate, loc), ie.Event.Duration))
	}
	return refs, cobra.ShellCompDirectiveNoFileComp
}
