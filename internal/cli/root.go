package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command of customersctl.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "customersctl",
		Short:         "Inspect EngageSphere customer seed files",
		Long:          "customersctl validates customer seed files and runs directory queries against them offline.",
		Version:       ver,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("region", "US", "default region for contact phone numbers")
	cmd.AddCommand(newValidateCmd(), newListCmd(), newImportCmd())

	return cmd
}
