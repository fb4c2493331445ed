package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/obreasy/obreasy/pkg/model"
	"github.com/obreasy/obreasy/pkg/storage"
	"github.com/spf13/cobra"
)

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Configure budget, deadline and payment alerts",
}

var alertBudgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Configure the budget threshold alert",
}

var alertBudgetSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update the project's budget alert",
	Long: `Create or update the single budget alert of a project. Disabling the
alert clears its fired thresholds, re-arming them for the next activation.`,
	RunE: runAlertBudgetSet,
}

var alertBudgetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the project's budget alert",
	RunE:  runAlertBudgetShow,
}

var alertDeadlineCmd = &cobra.Command{
	Use:   "deadline",
	Short: "Manage deadline reminders",
}

var alertDeadlineAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a deadline reminder",
	RunE:  runAlertDeadlineAdd,
}

var alertDeadlineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List deadline reminders",
	RunE:  runAlertDeadlineList,
}

var alertDeadlineDeleteCmd = &cobra.Command{
	Use:   "delete <alert-id>",
	Short: "Delete a deadline reminder",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertDeadlineDelete,
}

var alertPaymentCmd = &cobra.Command{
	Use:   "payment",
	Short: "Manage payment reminders",
}

var alertPaymentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a payment reminder",
	RunE:  runAlertPaymentAdd,
}

var alertPaymentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List payment reminders",
	RunE:  runAlertPaymentList,
}

var alertPaymentDeleteCmd = &cobra.Command{
	Use:   "delete <alert-id>",
	Short: "Delete a payment reminder",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertPaymentDelete,
}

func init() {
	rootCmd.AddCommand(alertCmd)
	alertCmd.AddCommand(alertBudgetCmd)
	alertCmd.AddCommand(alertDeadlineCmd)
	alertCmd.AddCommand(alertPaymentCmd)
	alertBudgetCmd.AddCommand(alertBudgetSetCmd)
	alertBudgetCmd.AddCommand(alertBudgetShowCmd)
	alertDeadlineCmd.AddCommand(alertDeadlineAddCmd)
	alertDeadlineCmd.AddCommand(alertDeadlineListCmd)
	alertDeadlineCmd.AddCommand(alertDeadlineDeleteCmd)
	alertPaymentCmd.AddCommand(alertPaymentAddCmd)
	alertPaymentCmd.AddCommand(alertPaymentListCmd)
	alertPaymentCmd.AddCommand(alertPaymentDeleteCmd)

	alertBudgetSetCmd.Flags().StringP("project", "j", "", "Project ID (default from config)")
	alertBudgetSetCmd.Flags().String("thresholds", "80,100", "Comma-separated budget percentages")
	alertBudgetSetCmd.Flags().Bool("disable", false, "Deactivate the alert (re-arms fired thresholds)")
	alertBudgetShowCmd.Flags().StringP("project", "j", "", "Project ID (default from config)")

	alertDeadlineAddCmd.Flags().StringP("project", "j", "", "Project ID (default from config)")
	alertDeadlineAddCmd.Flags().StringP("title", "t", "", "What the deadline is for")
	alertDeadlineAddCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	alertDeadlineAddCmd.Flags().Int("lead", 3, "How many days before the due date to warn (1, 3 or 7)")
	_ = alertDeadlineAddCmd.MarkFlagRequired("title")
	_ = alertDeadlineAddCmd.MarkFlagRequired("due")
	alertDeadlineListCmd.Flags().StringP("project", "j", "", "Project ID (default from config)")

	alertPaymentAddCmd.Flags().StringP("project", "j", "", "Project ID (default from config)")
	alertPaymentAddCmd.Flags().StringP("title", "t", "", "What the payment is for")
	alertPaymentAddCmd.Flags().String("category", "other", "Category (professional, material, other)")
	alertPaymentAddCmd.Flags().Float64P("amount", "a", 0, "Payment amount in BRL")
	alertPaymentAddCmd.Flags().String("professional", "", "Professional ID for professional payments")
	alertPaymentAddCmd.Flags().String("start", "", "First payment date (YYYY-MM-DD)")
	alertPaymentAddCmd.Flags().String("recurrence", "once", "Recurrence (once, weekly, monthly)")
	alertPaymentAddCmd.Flags().Int("weekday", 0, "Weekday 0-6 for weekly payments (informational)")
	alertPaymentAddCmd.Flags().Int("lead", 0, "How many days before the payment date to warn")
	_ = alertPaymentAddCmd.MarkFlagRequired("title")
	_ = alertPaymentAddCmd.MarkFlagRequired("start")
	alertPaymentListCmd.Flags().StringP("project", "j", "", "Project ID (default from config)")
}

func runAlertBudgetSet(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	projectID, err := resolveProject(cmd, cfg)
	if err != nil {
		return err
	}

	rawThresholds, _ := cmd.Flags().GetString("thresholds")
	disable, _ := cmd.Flags().GetBool("disable")

	thresholds, err := parseThresholds(rawThresholds)
	if err != nil {
		return err
	}

	store, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	alert, err := store.GetBudgetAlert(cmd.Context(), projectID)
	if errors.Is(err, storage.ErrNotFound) {
		alert = &model.BudgetAlert{ProjectID: projectID}
	} else if err != nil {
		return err
	}

	alert.Active = !disable
	alert.Thresholds = thresholds

	if err := store.UpsertBudgetAlert(cmd.Context(), alert); err != nil {
		return fmt.Errorf("set budget alert: %w", err)
	}

	state := "active"
	if disable {
		state = "disabled"
	}
	fmt.Printf("Budget alert %s for project %s (thresholds: %s).\n", state, projectID, rawThresholds)

	return nil
}

func runAlertBudgetShow(cmd *cobra.Command, _ []string) error {
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

	alert, err := store.GetBudgetAlert(cmd.Context(), projectID)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Println("No budget alert configured. Use 'obreasy alert budget set' to create one.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Budget alert for project %s:\n", projectID)
	fmt.Printf("  Active:     %t\n", alert.Active)
	fmt.Printf("  Thresholds: %s\n", formatThresholds(alert.Thresholds))
	fmt.Printf("  Fired:      %s\n", formatThresholds(alert.Fired))

	return nil
}

func runAlertDeadlineAdd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	projectID, err := resolveProject(cmd, cfg)
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	due, _ := cmd.Flags().GetString("due")
	lead, _ := cmd.Flags().GetInt("lead")

	dueDate, err := model.ParseDate(due)
	if err != nil {
		return err
	}

	store, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	alert := &model.DeadlineAlert{
		ProjectID: projectID,
		Title:     title,
		DueDate:   dueDate,
		LeadDays:  lead,
	}
	if err := store.CreateDeadlineAlert(cmd.Context(), alert); err != nil {
		return fmt.Errorf("add deadline alert: %w", err)
	}

	fmt.Printf("Deadline reminder %s created: %q due %s, warning %d day(s) before.\n",
		alert.ID, title, due, lead)

	return nil
}

func runAlertDeadlineList(cmd *cobra.Command, _ []string) error {
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

	alerts, err := store.ListDeadlineAlerts(cmd.Context(), projectID)
	if err != nil {
		return fmt.Errorf("list deadline alerts: %w", err)
	}

	if len(alerts) == 0 {
		fmt.Println("No deadline reminders for this project.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTITLE\tDUE\tLEAD\tFIRED\n")
	for _, a := range alerts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dd\t%t\n",
			a.ID, a.Title, a.DueDate.Format(model.DateLayout), a.LeadDays, a.Fired)
	}
	w.Flush()

	return nil
}

func runAlertDeadlineDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteDeadlineAlert(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete deadline alert: %w", err)
	}

	fmt.Printf("Deadline reminder %s deleted.\n", args[0])
	return nil
}

func runAlertPaymentAdd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	projectID, err := resolveProject(cmd, cfg)
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	category, _ := cmd.Flags().GetString("category")
	amount, _ := cmd.Flags().GetFloat64("amount")
	professional, _ := cmd.Flags().GetString("professional")
	start, _ := cmd.Flags().GetString("start")
	recurrence, _ := cmd.Flags().GetString("recurrence")
	weekday, _ := cmd.Flags().GetInt("weekday")
	lead, _ := cmd.Flags().GetInt("lead")

	startDate, err := model.ParseDate(start)
	if err != nil {
		return err
	}

	switch model.PaymentCategory(category) {
	case model.PaymentProfessional, model.PaymentMaterial, model.PaymentOther:
	default:
		return fmt.Errorf("invalid category %q (professional, material, other)", category)
	}
	switch model.Recurrence(recurrence) {
	case model.RecurrenceOnce, model.RecurrenceWeekly, model.RecurrenceMonthly:
	default:
		return fmt.Errorf("invalid recurrence %q (once, weekly, monthly)", recurrence)
	}

	store, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	alert := &model.PaymentAlert{
		ProjectID:      projectID,
		Title:          title,
		Category:       model.PaymentCategory(category),
		AmountBRL:      amount,
		ProfessionalID: professional,
		StartDate:      startDate,
		Recurrence:     model.Recurrence(recurrence),
		Weekday:        weekday,
		LeadDays:       lead,
	}
	if err := store.CreatePaymentAlert(cmd.Context(), alert); err != nil {
		return fmt.Errorf("add payment alert: %w", err)
	}

	fmt.Printf("Payment reminder %s created: %q starting %s (%s).\n",
		alert.ID, title, start, recurrence)

	return nil
}

func runAlertPaymentList(cmd *cobra.Command, _ []string) error {
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

	alerts, err := store.ListPaymentAlerts(cmd.Context(), projectID)
	if err != nil {
		return fmt.Errorf("list payment alerts: %w", err)
	}

	if len(alerts) == 0 {
		fmt.Println("No payment reminders for this project.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTITLE\tCATEGORY\tAMOUNT\tNEXT\tRECURRENCE\tLEAD\tFIRED\n")
	for _, a := range alerts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%dd\t%t\n",
			a.ID, a.Title, a.Category, model.FormatBRL(a.AmountBRL),
			a.NextDate.Format(model.DateLayout), a.Recurrence, a.LeadDays, a.Fired)
	}
	w.Flush()

	return nil
}

func runAlertPaymentDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeletePaymentAlert(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete payment alert: %w", err)
	}

	fmt.Printf("Payment reminder %s deleted.\n", args[0])
	return nil
}

func parseThresholds(raw string) ([]float64, error) {
	var thresholds []float64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold %q: %w", part, err)
		}
		thresholds = append(thresholds, v)
	}
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("no thresholds given")
	}
	return thresholds, nil
}

func formatThresholds(ts []float64) string {
	if len(ts) == 0 {
		return "-"
	}
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = strconv.FormatFloat(t, 'f', -1, 64) + "%"
	}
	return strings.Join(parts, ", ")
}
