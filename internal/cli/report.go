package cli

import (
	"fmt"

	"github.com/obreasy/obreasy/pkg/model"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show a project's financial summary",
	Long:  `Show budget, total spent, remaining balance and cost per m² for a project.`,
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("project", "j", "", "Project ID (default from config)")
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	projectID, err := resolveProject(cmd, cfg)
	if err != nil {
		return err
	}

	engine, store, err := initEngine(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	project, err := store.GetProject(cmd.Context(), projectID)
	if err != nil {
		return err
	}

	total, err := store.SumExpenses(cmd.Context(), projectID)
	if err != nil {
		return fmt.Errorf("sum expenses: %w", err)
	}

	unread, err := engine.UnreadNotifications(cmd.Context(), projectID)
	if err != nil {
		return fmt.Errorf("list unread notifications: %w", err)
	}

	metrics := model.ComputeMetrics(project, total)

	fmt.Printf("=== %s ===\n", project.Name)
	fmt.Printf("Budget:       %s\n", model.FormatBRL(metrics.BudgetBRL))
	fmt.Printf("Total spent:  %s\n", model.FormatBRL(metrics.TotalSpent))
	fmt.Printf("Balance:      %s\n", model.FormatBRL(metrics.Balance))
	if metrics.AreaM2 > 0 {
		fmt.Printf("Cost per m²:  %s (%.0f m²)\n", model.FormatBRL(metrics.CostPerM2), metrics.AreaM2)
	}
	if metrics.BudgetBRL > 0 {
		fmt.Printf("Budget used:  %.1f%%\n", (metrics.TotalSpent/metrics.BudgetBRL)*100)
	}
	fmt.Printf("Unread notifications: %d\n", len(unread))

	return nil
}
