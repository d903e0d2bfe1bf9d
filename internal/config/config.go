package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/cardledger/internal/mapper"
	"github.com/cleared-dev/cardledger/internal/resolver"
)

// FileName is the config file at the root of a ledger repo.
const FileName = "cardledger.yaml"

// DefaultImporterTag is written to the importer metadata of provisioned card accounts.
const DefaultImporterTag = "cardledger"

// Config represents the top-level cardledger.yaml configuration.
type Config struct {
	Ledger   LedgerConfig   `yaml:"ledger"`
	Importer ImporterConfig `yaml:"importer"`
	Cards    []Card         `yaml:"cards,omitempty"`
	Git      GitConfig      `yaml:"git"`
}

// LedgerConfig identifies the ledger.
type LedgerConfig struct {
	Name string `yaml:"name"`
}

// ImporterConfig controls how issuer activity is mapped.
type ImporterConfig struct {
	// Tag is matched against the importer metadata of card accounts. Empty
	// disables the check.
	Tag            string `yaml:"tag"`
	ExpenseAccount string `yaml:"expense_account"`
	// Resolution is "first-match" or "strict".
	Resolution string `yaml:"resolution"`
	Workers    int    `yaml:"workers"`
}

// Card maps an issuer card to a ledger account.
type Card struct {
	Name     string `yaml:"name"`
	LastFour string `yaml:"last_four"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Path returns the config location inside a repo.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, FileName)
}

// Load reads and validates a cardledger.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks values that the importer cannot default.
func (c *Config) Validate() error {
	if _, err := resolver.ParsePolicy(c.Importer.Resolution); err != nil {
		return err
	}
	if strings.TrimSpace(c.Importer.ExpenseAccount) == "" {
		return fmt.Errorf("importer.expense_account must not be empty")
	}
	if c.Importer.Workers < 0 {
		return fmt.Errorf("importer.workers must not be negative")
	}
	for _, card := range c.Cards {
		if card.Name == "" {
			return fmt.Errorf("card ending %s has no account name", card.LastFour)
		}
		if len(card.LastFour) != 4 || strings.Trim(card.LastFour, "0123456789") != "" {
			return fmt.Errorf("card %s: last_four %q is not four digits", card.Name, card.LastFour)
		}
	}
	return nil
}

// MapperOptions translates the importer section into mapper options.
// Clock and Logger are left for the caller.
func (c *Config) MapperOptions() (mapper.Options, error) {
	policy, err := resolver.ParsePolicy(c.Importer.Resolution)
	if err != nil {
		return mapper.Options{}, err
	}
	return mapper.Options{
		ExpenseAccount: c.Importer.ExpenseAccount,
		Importer:       c.Importer.Tag,
		Policy:         policy,
		Workers:        c.Importer.Workers,
	}, nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(name string) *Config {
	return &Config{
		Ledger: LedgerConfig{Name: name},
		Importer: ImporterConfig{
			Tag:            DefaultImporterTag,
			ExpenseAccount: mapper.DefaultExpenseAccount,
			Resolution:     string(resolver.FirstMatch),
			Workers:        1,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "cardledger",
			AuthorEmail: "import@cardledger.local",
		},
	}
}
