package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/cardledger/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "cardledger",
		Short:   "Import credit card activity into a plain-text ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().Bool("verbose", false, "log skipped and duplicate activities")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}
