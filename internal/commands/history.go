package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/cardledger/internal/importlog"
)

func newHistoryCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runHistory(cmd.OutOrStdout(), absDir)
		},
	}
	cmd.Flags().StringVar(&repoDir, "repo", ".", "ledger repository directory")
	return cmd
}

func runHistory(out io.Writer, repoDir string) error {
	runs, err := importlog.Read(repoDir)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No imports recorded")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSOURCE\tREAD\tTXNS\tBALANCES\tENTRIES\tCOMMIT")
	for _, r := range runs {
		entries := "-"
		if r.FirstEntry != "" {
			entries = r.FirstEntry + ".." + r.LastEntry
		}
		commit := r.Commit
		if commit == "" {
			commit = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			r.Time.Format(time.RFC3339), r.Source, r.Activities, r.Transactions, r.Balances, entries, commit)
	}
	return tw.Flush()
}
