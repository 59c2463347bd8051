package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/octobees/engagesphere/api/internal/entity"
	"github.com/octobees/engagesphere/api/internal/service"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <seed-file>",
		Short: "Validate a customer seed file",
		Long:  "Loads a JSON, YAML or CSV seed file with the same rules as the API and prints a summary per size and industry.",
		Example: `  customersctl validate data/customers.json
  customersctl validate export.csv --region GB`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			customers, err := loadSeed(cmd, args[0])
			if err != nil {
				return err
			}

			bySize := make(map[entity.Size]int, len(entity.Sizes))
			byIndustry := make(map[entity.Industry]int, len(entity.Industries))
			for _, c := range customers {
				bySize[c.Size]++
				byIndustry[c.Industry]++
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d customers\n", args[0], len(customers))
			fmt.Fprintln(out, "by size:")
			for _, size := range entity.Sizes {
				fmt.Fprintf(out, "  %-22s %d\n", size, bySize[size])
			}
			fmt.Fprintln(out, "by industry:")
			for _, industry := range entity.Industries {
				fmt.Fprintf(out, "  %-22s %d\n", industry, byIndustry[industry])
			}
			return nil
		},
	}
}

func loadSeed(cmd *cobra.Command, path string) ([]entity.Customer, error) {
	region, _ := cmd.Flags().GetString("region")
	return service.NewCustomerLoader(service.NewContactNormalizer(region)).LoadFile(path)
}
