package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookfinder",
		Short: "Search for books and keep a favorites list",
		Long: `Bookfinder is a single-user client for a remote book-search API.

Log in once to establish a session, search the catalog, and curate a
favorites list that survives restarts (and logouts).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newFavoritesCmd())

	return cmd
}
