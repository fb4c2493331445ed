package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List and acknowledge notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a project's notifications, newest first",
	RunE:  runNotificationsList,
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <notification-id>",
	Short: "Mark one notification as read",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotificationsRead,
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification of a project as read",
	RunE:  runNotificationsReadAll,
}

func init() {
	rootCmd.AddCommand(notificationsCmd)
	notificationsCmd.AddCommand(notificationsListCmd)
	notificationsCmd.AddCommand(notificationsReadCmd)
	notificationsCmd.AddCommand(notificationsReadAllCmd)

	notificationsListCmd.Flags().StringP("project", "j", "", "Project ID (default from config)")
	notificationsListCmd.Flags().BoolP("unread", "u", false, "Only unread notifications")
	notificationsReadAllCmd.Flags().StringP("project", "j", "", "Project ID (default from config)")
}

func runNotificationsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	projectID, err := resolveProject(cmd, cfg)
	if err != nil {
		return err
	}
	unreadOnly, _ := cmd.Flags().GetBool("unread")

	engine, store, err := initEngine(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	notifications, err := engine.Notifications(cmd.Context(), projectID)
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}
	if unreadOnly {
		notifications, err = engine.UnreadNotifications(cmd.Context(), projectID)
		if err != nil {
			return fmt.Errorf("list unread notifications: %w", err)
		}
	}

	if len(notifications) == 0 {
		fmt.Println("No notifications.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tWHEN\tKIND\tREAD\tMESSAGE\n")
	for _, n := range notifications {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
			n.ID, n.CreatedAt.Format("2006-01-02 15:04"), n.Kind, n.Read, n.Message)
	}
	w.Flush()

	return nil
}

func runNotificationsRead(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine, store, err := initEngine(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	changed, err := engine.MarkRead(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	if changed {
		fmt.Println("Notification marked as read.")
	} else {
		fmt.Println("Nothing to do: notification missing or already read.")
	}
	return nil
}

func runNotificationsReadAll(cmd *cobra.Command, _ []string) error {
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

	changed, err := engine.MarkAllRead(cmd.Context(), projectID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}

	fmt.Printf("%d notification(s) marked as read.\n", changed)
	return nil
}
