package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/cardledger/internal/accounts"
	"github.com/cleared-dev/cardledger/internal/config"
	"github.com/cleared-dev/cardledger/internal/gitops"
	"github.com/cleared-dev/cardledger/internal/journal"
)

func newInitCommand() *cobra.Command {
	var name string
	var cardSpecs []string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cards, err := parseCards(cardSpecs)
			if err != nil {
				return err
			}

			return runInit(cmd.OutOrStdout(), absDir, name, cards, useGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "ledger name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringArrayVar(&cardSpecs, "card", nil, "card account as ACCOUNT=LAST4, repeatable")
	cmd.Flags().BoolVar(&useGit, "git", true, "initialize a git repository and commit")

	return cmd
}

// parseCards parses "Liabilities:CreditCard=1234" flags.
func parseCards(specs []string) ([]config.Card, error) {
	var cards []config.Card
	for _, s := range specs {
		name, lastFour, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --card %q: want ACCOUNT=LAST4", s)
		}
		cards = append(cards, config.Card{Name: name, LastFour: lastFour})
	}
	return cards, nil
}

func runInit(out io.Writer, dir, name string, cards []config.Card, useGit bool) error {
	for _, d := range []string{"accounts", "ledger", "import", "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(name)
	cfg.Cards = cards
	if !useGit {
		cfg.Git.AutoCommit = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(config.Path(dir), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	acctCards := make([]accounts.Card, len(cards))
	for i, c := range cards {
		acctCards[i] = accounts.Card{Name: c.Name, LastFour: c.LastFour}
	}
	chart := accounts.DefaultChart(cfg.Importer.Tag, acctCards)
	if err := accounts.NewService(chart).Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	f, err := os.Create(journal.Path(dir))
	if err != nil {
		return fmt.Errorf("creating journal: %w", err)
	}
	if err := journal.WriteEntries(f, journal.Entries{}); err != nil {
		f.Close()
		return fmt.Errorf("writing journal header: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing journal: %w", err)
	}

	// Downloaded issuer files are inputs, not ledger history.
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("import/\nlogs/\n"), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if !useGit {
		fmt.Fprintf(out, "Initialized ledger %q at %s\n", name, dir)
		return nil
	}

	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	hash, err := gitops.Commit(dir, "init: Initialize "+name, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized ledger %q at %s (%s)\n", name, dir, hash)
	return nil
}
