package cli

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/octobees/engagesphere/api/internal/dto"
	"github.com/octobees/engagesphere/api/internal/repository"
	"github.com/octobees/engagesphere/api/internal/service"
)

func newListCmd() *cobra.Command {
	var defaultLimit int

	cmd := &cobra.Command{
		Use:   "list <seed-file>",
		Short: "Run a GET /customers query against a seed file",
		Long:  "Applies the API's validation, filtering and pagination to a seed file and prints the response body.",
		Example: `  customersctl list data/customers.json --page 2 --limit 5
  customersctl list data/customers.json --size Medium --industry Technology`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			customers, err := loadSeed(cmd, args[0])
			if err != nil {
				return err
			}

			svc := service.NewCustomersService(repository.NewMemoryCustomersRepository(customers), defaultLimit)
			result, err := svc.ListCustomers(cmd.Context(), dto.ListQuery{
				Page:     flagValue(cmd, "page"),
				Limit:    flagValue(cmd, "limit"),
				Size:     flagValue(cmd, "size"),
				Industry: flagValue(cmd, "industry"),
			})

			var verr *service.ValidationError
			if errors.As(err, &verr) {
				if encErr := writeJSON(cmd, map[string]string{"error": verr.Message}); encErr != nil {
					return encErr
				}
				return err
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd, result)
		},
	}

	cmd.Flags().String("page", "", "page number (default 1)")
	cmd.Flags().String("limit", "", "page size")
	cmd.Flags().String("size", "", "size filter (All, Small, Medium, Enterprise, Large Enterprise, Very Large Enterprise)")
	cmd.Flags().String("industry", "", "industry filter (All, Logistics, Retail, Technology, HR, Finance)")
	cmd.Flags().IntVar(&defaultLimit, "default-limit", service.DefaultPageLimit, "page size used when --limit is not set")

	return cmd
}

// flagValue mirrors query-string presence: an unset flag is absent, an explicit empty value is not.
func flagValue(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, _ := cmd.Flags().GetString(name)
	return &value
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
