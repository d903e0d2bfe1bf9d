package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/cardledger/internal/accounts"
	"github.com/cleared-dev/cardledger/internal/config"
	"github.com/cleared-dev/cardledger/internal/gitops"
	"github.com/cleared-dev/cardledger/internal/importlog"
	"github.com/cleared-dev/cardledger/internal/issuer"
	"github.com/cleared-dev/cardledger/internal/journal"
	"github.com/cleared-dev/cardledger/internal/logger"
	"github.com/cleared-dev/cardledger/internal/mapper"
	"github.com/cleared-dev/cardledger/internal/model"
)

type importOptions struct {
	repoDir        string
	accountFile    string
	activitiesFile string
	dryRun         bool
	now            func() time.Time
}

func newImportCommand() *cobra.Command {
	opts := importOptions{now: time.Now}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import downloaded card activity into the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(opts.repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			opts.repoDir = absDir

			verbose, _ := cmd.Flags().GetBool("verbose")
			log := logger.NewConsole(cmd.ErrOrStderr(), verbose)
			return runImport(cmd.OutOrStdout(), log, opts)
		},
	}

	cmd.Flags().StringVar(&opts.repoDir, "repo", ".", "ledger repository directory")
	cmd.Flags().StringVar(&opts.accountFile, "account", filepath.Join("import", "account.json"), "issuer account snapshot (relative to --repo); empty skips the balance assertion")
	cmd.Flags().StringVar(&opts.activitiesFile, "activities", filepath.Join("import", "activities.json"), "issuer activity list (relative to --repo)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print new entries without writing the journal")

	return cmd
}

func runImport(out io.Writer, log zerolog.Logger, opts importOptions) error {
	cfg, err := config.Load(config.Path(opts.repoDir))
	if err != nil {
		return err
	}
	chart, err := accounts.Load(opts.repoDir)
	if err != nil {
		return err
	}
	jsvc := journal.NewService(opts.repoDir, chart)
	existing, err := jsvc.Load()
	if err != nil {
		return err
	}

	mopts, err := cfg.MapperOptions()
	if err != nil {
		return err
	}
	mopts.Logger = log
	mopts.Clock = opts.now
	cards := chart.ByType(model.AccountTypeLiability)
	checkCards(log, cfg.Cards, cards)
	m := mapper.New(existing.Ledger(cards), mopts)

	var balances []model.Balance
	if opts.accountFile != "" {
		acct, err := readJSON(opts.repoDir, opts.accountFile, issuer.DecodeAccount)
		if err != nil {
			return err
		}
		bal, err := m.MapBalance(acct)
		if err != nil {
			return fmt.Errorf("mapping balance: %w", err)
		}
		balances = append(balances, bal)
	}

	activities, err := readJSON(opts.repoDir, opts.activitiesFile, issuer.DecodeActivities)
	if err != nil {
		return err
	}
	txns, err := m.MapTransactions(activities)
	if err != nil {
		return fmt.Errorf("mapping activities: %w", err)
	}
	log.Info().
		Int("activities", len(activities)).
		Int("transactions", len(txns)).
		Int("balances", len(balances)).
		Msg("mapped issuer data")

	if opts.dryRun {
		return journal.WriteEntries(out, journal.Assign(existing, txns, balances))
	}

	run := importlog.Run{
		Time:       opts.now(),
		Source:     opts.activitiesFile,
		Activities: len(activities),
	}
	if len(txns) == 0 && len(balances) == 0 {
		fmt.Fprintln(out, "Nothing to import")
		return importlog.Record(opts.repoDir, run)
	}

	added, err := jsvc.Append(txns, balances)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %d transactions and %d balance assertions\n", len(added.TxnIDs), len(added.BalanceIDs))

	run.Transactions = len(added.TxnIDs)
	run.Balances = len(added.BalanceIDs)
	run.FirstEntry, run.LastEntry = added.Span()

	if cfg.Git.AutoCommit && gitops.IsRepo(opts.repoDir) {
		msg := fmt.Sprintf("import: %d transactions", len(added.TxnIDs))
		hash, err := gitops.Commit(opts.repoDir, msg, cfg.Git.AuthorName, cfg.Git.AuthorEmail, filepath.Dir(journal.Path(opts.repoDir)))
		switch {
		case errors.Is(err, gitops.ErrNothingToCommit):
			log.Debug().Msg("ledger unchanged, no commit")
		case err != nil:
			return fmt.Errorf("committing import: %w", err)
		default:
			log.Info().Str("commit", hash).Msg("committed ledger")
			run.Commit = hash
		}
	}
	return importlog.Record(opts.repoDir, run)
}

// checkCards warns about configured cards the chart no longer tags. Resolution
// goes by chart tags alone, so these only point at a stale config or chart.
func checkCards(log zerolog.Logger, configured []config.Card, liabilities []model.Account) {
	for _, c := range configured {
		i := slices.IndexFunc(liabilities, func(a model.Account) bool { return a.Name == c.Name })
		if i < 0 {
			log.Warn().Str("account", c.Name).Msg("configured card account is not a liability in the chart")
			continue
		}
		if lf, _ := liabilities[i].LastFour(); lf != c.LastFour {
			log.Warn().Str("account", c.Name).Str("config", c.LastFour).Str("chart", lf).Msg("card digits differ between config and chart")
		}
	}
}

func readJSON[T any](repoDir, name string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(repoDir, name)
	}
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	v, err := decode(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
