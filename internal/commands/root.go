// Package commands implements the fundctl operator CLI.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/groupfund/groupfund/internal/handler"
	"github.com/groupfund/groupfund/internal/storage"
)

// storageFlags select the ledger store. Defaults come from the same
// environment variables the API server reads.
type storageFlags struct {
	backend     string
	databaseURL string
	sqlitePath  string
}

func (f *storageFlags) options() storage.Options {
	return storage.Options{
		Backend:     f.backend,
		DatabaseURL: f.databaseURL,
		SQLitePath:  f.sqlitePath,
	}
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	flags := &storageFlags{}

	rootCmd := &cobra.Command{
		Use:     "fundctl",
		Short:   "Operate a groupfund ledger",
		Version: handler.Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.backend, "backend", envOr("DATA_BACKEND", storage.BackendPostgres), "storage backend (postgres or sqlite)")
	pf.StringVar(&flags.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	pf.StringVar(&flags.sqlitePath, "sqlite-path", envOr("SQLITE_PATH", "./data/groupfund.db"), "SQLite database file")

	rootCmd.AddCommand(
		newMigrateCommand(flags),
		newSummaryCommand(flags),
		newCategoriesCommand(flags),
		newVerifyCommand(flags),
	)

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
