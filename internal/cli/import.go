package cli

import (
	"fmt"
	"os"

	"github.com/obreasy/obreasy/pkg/legacy"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <export.json>",
	Short: "Import a legacy web-client data export",
	Long: `Import a JSON export of the original Obreasy web client's browser
storage. Projects, expenses, professionals, alerts and notifications are
loaded into the local database; the two historical spellings of the
professional link field are collapsed into one.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	export, err := legacy.Decode(f)
	if err != nil {
		return err
	}

	store, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := export.Import(cmd.Context(), store)
	if err != nil {
		return fmt.Errorf("import export: %w", err)
	}

	fmt.Printf("Imported:\n")
	fmt.Printf("  Projects:        %d\n", stats.Projects)
	fmt.Printf("  Expenses:        %d\n", stats.Expenses)
	fmt.Printf("  Professionals:   %d\n", stats.Professionals)
	fmt.Printf("  Budget alerts:   %d\n", stats.BudgetAlerts)
	fmt.Printf("  Deadline alerts: %d\n", stats.DeadlineAlerts)
	fmt.Printf("  Payment alerts:  %d\n", stats.PaymentAlerts)
	fmt.Printf("  Notifications:   %d\n", stats.Notifications)

	return nil
}
