package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate all alerts for a project now",
	Long: `Run the budget, deadline and payment alert evaluations for a project
against today's date and current spending. Newly fired alerts produce
notifications; already-fired conditions stay quiet.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringP("project", "j", "", "Project ID (default from config)")
}

func runCheck(cmd *cobra.Command, _ []string) error {
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

	created, err := engine.CheckAll(cmd.Context(), projectID, project.BudgetBRL, total)
	if err != nil {
		return fmt.Errorf("check alerts: %w", err)
	}

	if len(created) == 0 {
		fmt.Println("No new alerts fired.")
		return nil
	}

	for _, n := range created {
		fmt.Printf("[%s] %s\n", n.Title, n.Message)
	}
	fmt.Printf("\n%d notification(s) created.\n", len(created))

	return nil
}
