package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/octobees/engagesphere/api/internal/database"
	"github.com/octobees/engagesphere/api/internal/repository"
)

func newImportCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "import <seed-file>",
		Short: "Replace the customers table with a seed file",
		Long:  "Validates a seed file, creates the customers table when missing and replaces its rows in a single transaction.",
		Example: `  customersctl import data/customers.json --database-url postgres://localhost/engagesphere
  DATABASE_URL=postgres://localhost/engagesphere customersctl import export.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				databaseURL = os.Getenv("DATABASE_URL")
			}
			if databaseURL == "" {
				return errors.New("database url is required (--database-url or DATABASE_URL)")
			}

			customers, err := loadSeed(cmd, args[0])
			if err != nil {
				return err
			}

			pool, err := database.Connect(cmd.Context(), databaseURL, database.DefaultPoolSettings())
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := database.Migrate(cmd.Context(), pool); err != nil {
				return err
			}

			n, err := repository.NewPGXCustomersRepository(pool).ReplaceAll(cmd.Context(), customers)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d customers from %s\n", n, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres DSN (defaults to $DATABASE_URL)")

	return cmd
}
