package alerts

import (
	"context"
	"fmt"

	"github.com/obreasy/obreasy/pkg/model"
)

// CheckDeadlines evaluates the project's deadline alerts. An alert becomes
// eligible LeadDays before its due date and fires exactly once: the fired
// flag is persisted before the notification is written.
func (e *Engine) CheckDeadlines(ctx context.Context, projectID string) ([]model.Notification, error) {
	alerts, err := e.store.ListDeadlineAlerts(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list deadline alerts: %w", err)
	}

	today := e.today()

	var created []model.Notification
	for i := range alerts {
		alert := &alerts[i]
		if alert.Fired {
			continue
		}

		due := model.Midnight(alert.DueDate)
		warn := due.AddDate(0, 0, -alert.LeadDays)
		if today.Before(warn) {
			continue
		}

		alert.Fired = true
		if err := e.store.UpdateDeadlineAlert(ctx, alert); err != nil {
			return created, fmt.Errorf("save deadline alert %q: %w", alert.ID, err)
		}

		message := deadlineMessage(alert.Title, model.DaysUntil(today, due))
		n, err := e.createNotification(ctx, projectID, model.KindDeadline, "Alerta de Prazo", message, alert.ID)
		if err != nil {
			return created, fmt.Errorf("notify deadline %q: %w", alert.ID, err)
		}
		created = append(created, *n)
	}

	return created, nil
}

func deadlineMessage(title string, daysRemaining int) string {
	switch {
	case daysRemaining > 0:
		return fmt.Sprintf("Lembrete: %q está próximo! Faltam %d %s.",
			title, daysRemaining, pluralDays(daysRemaining))
	case daysRemaining == 0:
		return fmt.Sprintf("Atenção: %q é hoje!", title)
	default:
		overdue := -daysRemaining
		return fmt.Sprintf("Alerta: %q venceu há %d %s!",
			title, overdue, pluralDays(overdue))
	}
}

func pluralDays(n int) string {
	if n == 1 {
		return "dia"
	}
	return "dias"
}
