package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/locktime/internal/cli/handlers"
)

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create an account",
	Long: `Create a new account. The password is asked for twice unless given
with --password.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		password, _ := cmd.Flags().GetString("password")
		handlers.Register(cmd.Context(), deps, args[0], password)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in",
	Long: `Log in as an existing user. Without a username the remembered user
is used. --remember stores the username for the next login.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		user := ""
		if len(args) > 0 {
			user = args[0]
		}
		password, _ := cmd.Flags().GetString("password")
		remember, _ := cmd.Flags().GetBool("remember")
		handlers.Login(cmd.Context(), deps, user, password, remember)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out the current user",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.Logout(cmd.Context(), deps)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current user and profile",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.Whoami(cmd.Context(), deps)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	registerCmd.Flags().String("password", "", "Password (prompted when omitted)")
	loginCmd.Flags().String("password", "", "Password (prompted when omitted)")
	loginCmd.Flags().Bool("remember", false, "Remember the username on this machine")
}
