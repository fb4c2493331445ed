package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/obreasy/obreasy/pkg/model"
	"github.com/spf13/cobra"
)

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Record and list project expenses",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense",
	Long: `Record a single expense against a project. Budget alerts are evaluated
immediately after the expense is stored.`,
	RunE: runExpenseAdd,
}

var expenseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a project's expenses",
	RunE:  runExpenseList,
}

func init() {
	rootCmd.AddCommand(expenseCmd)
	expenseCmd.AddCommand(expenseAddCmd)
	expenseCmd.AddCommand(expenseListCmd)

	expenseAddCmd.Flags().StringP("project", "j", "", "Project ID (default from config)")
	expenseAddCmd.Flags().StringP("description", "d", "", "What the money was spent on")
	expenseAddCmd.Flags().Float64P("amount", "a", 0, "Amount in BRL")
	expenseAddCmd.Flags().StringP("category", "c", "", "Category (e.g. material, mao_obra)")
	expenseAddCmd.Flags().String("date", "", "Expense date (YYYY-MM-DD, default today)")
	expenseAddCmd.Flags().String("method", "", "Payment method")
	expenseAddCmd.Flags().String("supplier", "", "Supplier")
	expenseAddCmd.Flags().String("notes", "", "Free-form notes")
	expenseAddCmd.Flags().String("professional", "", "Professional ID for labor payments")
	_ = expenseAddCmd.MarkFlagRequired("description")
	_ = expenseAddCmd.MarkFlagRequired("amount")

	expenseListCmd.Flags().StringP("project", "j", "", "Project ID (default from config)")
}

func runExpenseAdd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	projectID, err := resolveProject(cmd, cfg)
	if err != nil {
		return err
	}

	description, _ := cmd.Flags().GetString("description")
	amount, _ := cmd.Flags().GetFloat64("amount")
	category, _ := cmd.Flags().GetString("category")
	date, _ := cmd.Flags().GetString("date")
	method, _ := cmd.Flags().GetString("method")
	supplier, _ := cmd.Flags().GetString("supplier")
	notes, _ := cmd.Flags().GetString("notes")
	professional, _ := cmd.Flags().GetString("professional")

	expense := &model.Expense{
		ProjectID:      projectID,
		Category:       category,
		Description:    description,
		AmountBRL:      amount,
		PaymentMethod:  method,
		Supplier:       supplier,
		Notes:          notes,
		ProfessionalID: professional,
	}
	if date != "" {
		d, err := model.ParseDate(date)
		if err != nil {
			return err
		}
		expense.Date = d
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

	if err := store.AddExpense(cmd.Context(), expense); err != nil {
		return fmt.Errorf("add expense: %w", err)
	}

	total, err := store.SumExpenses(cmd.Context(), projectID)
	if err != nil {
		return fmt.Errorf("sum expenses: %w", err)
	}

	fmt.Printf("Expense recorded:\n")
	fmt.Printf("  ID:          %s\n", expense.ID)
	fmt.Printf("  Description: %s\n", expense.Description)
	fmt.Printf("  Amount:      %s\n", model.FormatBRL(expense.AmountBRL))
	fmt.Printf("  Total spent: %s\n", model.FormatBRL(total))

	// New spending may cross a budget threshold right away.
	created, err := engine.CheckBudget(cmd.Context(), projectID, project.BudgetBRL, total)
	if err != nil {
		return fmt.Errorf("check budget alert: %w", err)
	}
	for _, n := range created {
		fmt.Printf("\n[%s] %s\n", n.Title, n.Message)
	}

	return nil
}

func runExpenseList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	projectID, err := resolveProject(cmd, cfg)
	if err != nil {
		return err
	}

	store, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	expenses, err := store.ListExpenses(cmd.Context(), projectID)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}

	if len(expenses) == 0 {
		fmt.Println("No expenses recorded for this project.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DATE\tDESCRIPTION\tCATEGORY\tAMOUNT\tSUPPLIER\n")
	var total float64
	for _, e := range expenses {
		total += e.AmountBRL
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Date.Format(model.DateLayout), e.Description, e.Category,
			model.FormatBRL(e.AmountBRL), e.Supplier)
	}
	w.Flush()
	fmt.Printf("\nTotal: %s\n", model.FormatBRL(total))

	return nil
}
