package cli

import (
	"fmt"

	"github.com/obreasy/obreasy/pkg/estimate"
	"github.com/obreasy/obreasy/pkg/model"
	"github.com/spf13/cobra"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate a project budget from reference costs",
	Long: `Estimate a budget from the reference cost-per-m² table, given the
project kind, finish standard and built area. A custom table can be set
via estimate.table in the config file.`,
	RunE: runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)
	estimateCmd.Flags().StringP("kind", "k", "reforma", "Project kind (construcao, reforma)")
	estimateCmd.Flags().StringP("standard", "s", "medio", "Finish standard (basico, medio, alto)")
	estimateCmd.Flags().Float64P("area", "a", 0, "Built area in m²")
	_ = estimateCmd.MarkFlagRequired("area")
}

func runEstimate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	kind, _ := cmd.Flags().GetString("kind")
	standard, _ := cmd.Flags().GetString("standard")
	area, _ := cmd.Flags().GetFloat64("area")

	table := estimate.DefaultTable()
	if cfg.Estimate.Table != "" {
		table, err = estimate.LoadTable(cfg.Estimate.Table)
		if err != nil {
			return err
		}
	}

	rate := table.Rate(kind, standard)
	total := table.Estimate(kind, standard, area)

	fmt.Printf("Budget estimate:\n")
	fmt.Printf("  Kind:     %s\n", kind)
	fmt.Printf("  Standard: %s\n", standard)
	fmt.Printf("  Area:     %.0f m²\n", area)
	fmt.Printf("  Rate:     %s/m²\n", model.FormatBRL(rate))
	fmt.Printf("  Estimate: %s\n", model.FormatBRL(total))

	return nil
}
