package storage

import (
	"context"
	"errors"

	"github.com/obreasy/obreasy/pkg/model"
)

// ErrNotFound is returned when a requested record does not exist. Callers
// that treat absence as a no-op must check for it explicitly instead of
// relying on empty results.
var ErrNotFound = errors.New("not found")

// Store defines the persistence layer for projects, expenses, professionals,
// alerts and notifications.
type Store interface {
	// CreateProject persists a new project.
	CreateProject(ctx context.Context, p *model.Project) error

	// GetProject retrieves a project by ID.
	GetProject(ctx context.Context, id string) (*model.Project, error)

	// ListProjects returns all projects ordered by creation time.
	ListProjects(ctx context.Context) ([]model.Project, error)

	// DeleteProjectCascade removes a project and every record tied to it:
	// expenses, professionals, alerts and notifications.
	DeleteProjectCascade(ctx context.Context, id string) error

	// AddExpense persists a single expense.
	AddExpense(ctx context.Context, e *model.Expense) error

	// ListExpenses returns all expenses for a project, newest first.
	ListExpenses(ctx context.Context, projectID string) ([]model.Expense, error)

	// SumExpenses returns the total amount spent on a project.
	SumExpenses(ctx context.Context, projectID string) (float64, error)

	// ListPaymentsByProfessional returns the labor expenses linked to a
	// professional within a project.
	ListPaymentsByProfessional(ctx context.Context, projectID, professionalID string) ([]model.Expense, error)

	// AddProfessional persists a hired professional.
	AddProfessional(ctx context.Context, p *model.Professional) error

	// ListProfessionals returns all professionals for a project.
	ListProfessionals(ctx context.Context, projectID string) ([]model.Professional, error)

	// UpsertBudgetAlert creates or replaces the budget alert for a project.
	UpsertBudgetAlert(ctx context.Context, a *model.BudgetAlert) error

	// GetBudgetAlert retrieves the budget alert for a project.
	GetBudgetAlert(ctx context.Context, projectID string) (*model.BudgetAlert, error)

	// CreateDeadlineAlert persists a new deadline alert.
	CreateDeadlineAlert(ctx context.Context, a *model.DeadlineAlert) error

	// ListDeadlineAlerts returns all deadline alerts for a project.
	ListDeadlineAlerts(ctx context.Context, projectID string) ([]model.DeadlineAlert, error)

	// UpdateDeadlineAlert persists evaluation-side mutations of an alert.
	UpdateDeadlineAlert(ctx context.Context, a *model.DeadlineAlert) error

	// DeleteDeadlineAlert removes a deadline alert by ID.
	DeleteDeadlineAlert(ctx context.Context, id string) error

	// CreatePaymentAlert persists a new payment alert.
	CreatePaymentAlert(ctx context.Context, a *model.PaymentAlert) error

	// ListPaymentAlerts returns all payment alerts for a project.
	ListPaymentAlerts(ctx context.Context, projectID string) ([]model.PaymentAlert, error)

	// UpdatePaymentAlert persists evaluation-side mutations of an alert.
	UpdatePaymentAlert(ctx context.Context, a *model.PaymentAlert) error

	// DeletePaymentAlert removes a payment alert by ID.
	DeletePaymentAlert(ctx context.Context, id string) error

	// AppendNotification persists a new notification.
	AppendNotification(ctx context.Context, n *model.Notification) error

	// GetNotification retrieves a notification by ID.
	GetNotification(ctx context.Context, id string) (*model.Notification, error)

	// ListNotifications returns all notifications for a project, newest first.
	ListNotifications(ctx context.Context, projectID string) ([]model.Notification, error)

	// ListUnreadNotifications returns the unread notifications for a project,
	// newest first.
	ListUnreadNotifications(ctx context.Context, projectID string) ([]model.Notification, error)

	// MarkNotificationRead flips one notification to read. It reports whether
	// anything changed; missing or already-read notifications are a no-op.
	MarkNotificationRead(ctx context.Context, id string) (bool, error)

	// MarkAllNotificationsRead flips every notification of a project to read
	// and returns how many changed.
	MarkAllNotificationsRead(ctx context.Context, projectID string) (int64, error)

	// Close releases resources.
	Close() error
}
