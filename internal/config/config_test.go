package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/cardledger/internal/resolver"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Household")
	cfg.Cards = []Card{{Name: "Liabilities:CreditCard:Rogers", LastFour: "1234"}}

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("importer: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

const withExpense = "importer:\n  expense_account: Expenses:Uncategorized\n"

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"policy", "importer:\n  resolution: random\n", "unknown resolution policy"},
		{"expense account", "importer:\n  expense_account: \" \"\n", "expense_account"},
		{"workers", withExpense + "  workers: -2\n", "workers"},
		{"card digits", withExpense + "cards:\n  - name: Liabilities:Card\n    last_four: \"12\"\n", "not four digits"},
		{"card name", withExpense + "cards:\n  - last_four: \"1234\"\n", "no account name"},
	}
	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), FileName)
		require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
		_, err := Load(path)
		require.Error(t, err, tt.name)
		assert.Contains(t, err.Error(), tt.want, tt.name)
	}
}

func TestMapperOptions(t *testing.T) {
	cfg := Default("x")
	cfg.Importer.Resolution = "strict"
	cfg.Importer.Workers = 4

	opts, err := cfg.MapperOptions()
	require.NoError(t, err)
	assert.Equal(t, resolver.Strict, opts.Policy)
	assert.Equal(t, DefaultImporterTag, opts.Importer)
	assert.Equal(t, "Expenses:Uncategorized", opts.ExpenseAccount)
	assert.Equal(t, 4, opts.Workers)
}

func TestSaveContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Household")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)
	assert.Contains(t, contents, "name: Household")
	assert.Contains(t, contents, "resolution: first-match")
	assert.Contains(t, contents, "auto_commit: true")
}
