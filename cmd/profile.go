package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xolan/locktime/internal/cli/handlers"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the current user's profile",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.ShowProfile(cmd.Context(), deps)
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	Long: `Update the given profile fields. Fields not given keep their value.

Examples:
  locktime profile set --name Alex --keyholder Sam
  locktime profile set --device custom --custom-device "Steel belt"`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handlers.SetProfile(cmd.Context(), deps, profileUpdate(cmd))
	},
}

// profileUpdate collects the profile flags that were set.
func profileUpdate(cmd *cobra.Command) handlers.ProfileUpdate {
	get := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetString(name)
		return &v
	}
	return handlers.ProfileUpdate{
		DisplayName:  get("name"),
		Keyholder:    get("keyholder"),
		DeviceType:   get("device"),
		CustomDevice: get("custom-device"),
	}
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileSetCmd)

	profileSetCmd.Flags().String("name", "", "Display name")
	profileSetCmd.Flags().String("keyholder", "", "Keyholder name (empty for self-locked)")
	profileSetCmd.Flags().String("device", "", "Device type, or \"custom\"")
	profileSetCmd.Flags().String("custom-device", "", "Device name when --device is custom")
}
