package alerts

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/obreasy/obreasy/pkg/model"
	"github.com/obreasy/obreasy/pkg/storage"
)

// CheckBudget evaluates the project's budget alert against current spending.
// It is a no-op when no alert exists, the alert is inactive, or the budget is
// zero. Each configured threshold fires at most once per arming cycle: the
// fired set is persisted before notifications are written, so repeated calls
// with the same inputs never duplicate a notification.
func (e *Engine) CheckBudget(ctx context.Context, projectID string, budget, totalSpent float64) ([]model.Notification, error) {
	alert, err := e.store.GetBudgetAlert(ctx, projectID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load budget alert: %w", err)
	}

	if !alert.Active || budget == 0 {
		return nil, nil
	}

	spentPct := (totalSpent / budget) * 100

	var crossed []float64
	for _, threshold := range alert.Thresholds {
		if spentPct >= threshold && !alert.HasFired(threshold) {
			alert.Fired = append(alert.Fired, threshold)
			crossed = append(crossed, threshold)
		}
	}
	if len(crossed) == 0 {
		return nil, nil
	}

	if err := e.store.UpsertBudgetAlert(ctx, alert); err != nil {
		return nil, fmt.Errorf("save budget alert: %w", err)
	}

	var created []model.Notification
	for _, threshold := range crossed {
		pct := strconv.FormatFloat(threshold, 'f', -1, 64)
		title := fmt.Sprintf("Alerta de Orçamento - %s%%", pct)
		message := fmt.Sprintf(
			"Atenção! Os gastos da obra atingiram %s%% do orçamento estimado (%s de %s).",
			pct, model.FormatBRL(totalSpent), model.FormatBRL(budget),
		)

		n, err := e.createNotification(ctx, projectID, model.KindBudget, title, message, alert.ID)
		if err != nil {
			return created, fmt.Errorf("notify threshold %s%%: %w", pct, err)
		}
		created = append(created, *n)
	}

	return created, nil
}
