package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/obreasy/obreasy/pkg/model"
	"github.com/spf13/cobra"
)

var professionalCmd = &cobra.Command{
	Use:   "professional",
	Short: "Manage hired professionals",
}

var professionalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a professional to a project",
	RunE:  runProfessionalAdd,
}

var professionalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a project's professionals with amounts paid",
	RunE:  runProfessionalList,
}

func init() {
	rootCmd.AddCommand(professionalCmd)
	professionalCmd.AddCommand(professionalAddCmd)
	professionalCmd.AddCommand(professionalListCmd)

	professionalAddCmd.Flags().StringP("project", "j", "", "Project ID (default from config)")
	professionalAddCmd.Flags().StringP("name", "n", "", "Professional name")
	professionalAddCmd.Flags().StringP("role", "r", "", "Role (e.g. pedreiro, eletricista)")
	professionalAddCmd.Flags().Float64("expected-total", 0, "Contracted total payment in BRL")
	_ = professionalAddCmd.MarkFlagRequired("name")

	professionalListCmd.Flags().StringP("project", "j", "", "Project ID (default from config)")
}

func runProfessionalAdd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	projectID, err := resolveProject(cmd, cfg)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	role, _ := cmd.Flags().GetString("role")
	expected, _ := cmd.Flags().GetFloat64("expected-total")

	store, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	professional := &model.Professional{
		ProjectID:        projectID,
		Name:             name,
		Role:             role,
		ExpectedTotalBRL: expected,
	}
	if err := store.AddProfessional(cmd.Context(), professional); err != nil {
		return fmt.Errorf("add professional: %w", err)
	}

	fmt.Printf("Professional added:\n")
	fmt.Printf("  ID:   %s\n", professional.ID)
	fmt.Printf("  Name: %s\n", professional.Name)
	fmt.Printf("  Role: %s\n", professional.Role)

	return nil
}

func runProfessionalList(cmd *cobra.Command, _ []string) error {
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

	professionals, err := store.ListProfessionals(cmd.Context(), projectID)
	if err != nil {
		return fmt.Errorf("list professionals: %w", err)
	}

	if len(professionals) == 0 {
		fmt.Println("No professionals registered for this project.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tROLE\tEXPECTED\tPAID\n")
	for _, p := range professionals {
		payments, err := store.ListPaymentsByProfessional(cmd.Context(), projectID, p.ID)
		if err != nil {
			return fmt.Errorf("list payments for %q: %w", p.ID, err)
		}
		var paid float64
		for _, e := range payments {
			paid += e.AmountBRL
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Role,
			model.FormatBRL(p.ExpectedTotalBRL), model.FormatBRL(paid))
	}
	w.Flush()

	return nil
}
