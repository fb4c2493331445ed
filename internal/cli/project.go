package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/obreasy/obreasy/internal/config"
	"github.com/obreasy/obreasy/pkg/model"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage construction projects",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	RunE:  runProjectCreate,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE:  runProjectList,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project and everything tied to it",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectDelete,
}

var projectUseCmd = &cobra.Command{
	Use:   "use <project-id>",
	Short: "Set the default project for other commands",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectUse,
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectUseCmd)

	projectCreateCmd.Flags().StringP("name", "n", "", "Project name")
	projectCreateCmd.Flags().StringP("kind", "k", "reforma", "Project kind (construcao, reforma)")
	projectCreateCmd.Flags().Float64P("area", "a", 0, "Built area in m²")
	projectCreateCmd.Flags().String("state", "", "State (UF)")
	projectCreateCmd.Flags().String("city", "", "City")
	projectCreateCmd.Flags().Float64P("budget", "b", 0, "Estimated budget in BRL")
	projectCreateCmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	projectCreateCmd.Flags().String("end", "", "Expected end date (YYYY-MM-DD)")
	_ = projectCreateCmd.MarkFlagRequired("name")
}

func runProjectCreate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	kind, _ := cmd.Flags().GetString("kind")
	area, _ := cmd.Flags().GetFloat64("area")
	state, _ := cmd.Flags().GetString("state")
	city, _ := cmd.Flags().GetString("city")
	budget, _ := cmd.Flags().GetFloat64("budget")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")

	project := &model.Project{
		Name:      name,
		Kind:      kind,
		AreaM2:    area,
		State:     state,
		City:      city,
		BudgetBRL: budget,
	}
	if start != "" {
		d, err := model.ParseDate(start)
		if err != nil {
			return err
		}
		project.StartDate = &d
	}
	if end != "" {
		d, err := model.ParseDate(end)
		if err != nil {
			return err
		}
		project.EndDate = &d
	}

	store, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.CreateProject(cmd.Context(), project); err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	fmt.Printf("Project created:\n")
	fmt.Printf("  ID:     %s\n", project.ID)
	fmt.Printf("  Name:   %s\n", project.Name)
	fmt.Printf("  Kind:   %s\n", project.Kind)
	if project.AreaM2 > 0 {
		fmt.Printf("  Area:   %.0f m²\n", project.AreaM2)
	}
	if project.BudgetBRL > 0 {
		fmt.Printf("  Budget: %s\n", model.FormatBRL(project.BudgetBRL))
	}

	return nil
}

func runProjectList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	projects, err := store.ListProjects(cmd.Context())
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}

	if len(projects) == 0 {
		fmt.Println("No projects yet. Use 'obreasy project create' to add one.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tKIND\tAREA\tBUDGET\tCITY\n")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f m²\t%s\t%s\n",
			p.ID, p.Name, p.Kind, p.AreaM2, model.FormatBRL(p.BudgetBRL), p.City)
	}
	w.Flush()

	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteProjectCascade(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	fmt.Printf("Project %s and all related records deleted.\n", args[0])
	return nil
}

func runProjectUse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	project, err := store.GetProject(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if err := config.SetDefaultProject(cfgFile, project.ID); err != nil {
		return err
	}

	fmt.Printf("Default project set to %s (%s).\n", project.ID, project.Name)
	return nil
}
