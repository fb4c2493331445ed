package alerts

import (
	"context"
	"fmt"

	"github.com/obreasy/obreasy/pkg/model"
)

// CheckPayments evaluates the project's payment alerts. An alert fires when
// today reaches its warn date (next occurrence minus lead days). One-off
// alerts stay fired forever; recurring alerts advance to the next occurrence
// and re-arm. Advancement repeats until the new warn date is strictly in the
// future, so a lead window longer than the recurrence interval cannot
// re-fire the alert within the same pass or session.
func (e *Engine) CheckPayments(ctx context.Context, projectID string) ([]model.Notification, error) {
	alerts, err := e.store.ListPaymentAlerts(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list payment alerts: %w", err)
	}

	today := e.today()

	var created []model.Notification
	for i := range alerts {
		alert := &alerts[i]
		if alert.Fired {
			continue
		}

		next := model.Midnight(alert.NextDate)
		warn := next.AddDate(0, 0, -alert.LeadDays)
		if today.Before(warn) {
			continue
		}

		message := paymentMessage(alert, model.DaysUntil(today, next))

		if alert.Recurrence == model.RecurrenceOnce {
			alert.Fired = true
		} else {
			next = model.NextOccurrence(next, alert.Recurrence)
			for !today.Before(next.AddDate(0, 0, -alert.LeadDays)) {
				next = model.NextOccurrence(next, alert.Recurrence)
			}
			alert.NextDate = next
			alert.Fired = false
		}

		if err := e.store.UpdatePaymentAlert(ctx, alert); err != nil {
			return created, fmt.Errorf("save payment alert %q: %w", alert.ID, err)
		}

		n, err := e.createNotification(ctx, projectID, model.KindPayment, "Alerta de Pagamento", message, alert.ID)
		if err != nil {
			return created, fmt.Errorf("notify payment %q: %w", alert.ID, err)
		}
		created = append(created, *n)
	}

	return created, nil
}

func paymentMessage(alert *model.PaymentAlert, daysRemaining int) string {
	message := fmt.Sprintf("Pagamento: %q", alert.Title)
	if alert.AmountBRL > 0 {
		message += " - " + model.FormatBRL(alert.AmountBRL)
	}

	switch {
	case daysRemaining > 0:
		message += fmt.Sprintf(" vence em %d %s.", daysRemaining, pluralDays(daysRemaining))
	case daysRemaining == 0:
		message += " vence hoje!"
	default:
		overdue := -daysRemaining
		message += fmt.Sprintf(" está vencido há %d %s!", overdue, pluralDays(overdue))
	}
	return message
}
