package alerts

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/obreasy/obreasy/pkg/model"
	"github.com/obreasy/obreasy/pkg/notify"
	"github.com/obreasy/obreasy/pkg/storage"
)

// Engine evaluates budget, deadline and payment alerts for a project and
// records the resulting notifications. Evaluation is synchronous; it runs
// when the CLI invokes it, on the service tick, or on demand over HTTP.
type Engine struct {
	store     storage.Store
	notifiers []notify.Notifier
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an alert engine using wall-clock time.
func New(store storage.Store, notifiers []notify.Notifier, logger *slog.Logger) *Engine {
	return NewWithClock(store, notifiers, logger, time.Now)
}

// NewWithClock creates an alert engine with an injected clock. Evaluation
// compares calendar dates only, so the clock is truncated to midnight UTC.
func NewWithClock(store storage.Store, notifiers []notify.Notifier, logger *slog.Logger, now func() time.Time) *Engine {
	return &Engine{
		store:     store,
		notifiers: notifiers,
		logger:    logger,
		now:       now,
	}
}

// today returns the current calendar date at midnight UTC.
func (e *Engine) today() time.Time {
	return model.Midnight(e.now())
}

// CheckAll runs the three alert evaluations in a fixed order: budget,
// deadlines, payments. A failure in one check is collected and does not stop
// the others. It returns every notification created during the pass.
func (e *Engine) CheckAll(ctx context.Context, projectID string, budget, totalSpent float64) ([]model.Notification, error) {
	var created []model.Notification
	var errs []error

	ns, err := e.CheckBudget(ctx, projectID, budget, totalSpent)
	if err != nil {
		e.logger.Error("budget check failed", "project", projectID, "error", err)
		errs = append(errs, err)
	}
	created = append(created, ns...)

	ns, err = e.CheckDeadlines(ctx, projectID)
	if err != nil {
		e.logger.Error("deadline check failed", "project", projectID, "error", err)
		errs = append(errs, err)
	}
	created = append(created, ns...)

	ns, err = e.CheckPayments(ctx, projectID)
	if err != nil {
		e.logger.Error("payment check failed", "project", projectID, "error", err)
		errs = append(errs, err)
	}
	created = append(created, ns...)

	return created, errors.Join(errs...)
}

// createNotification persists a notification and fans it out to the
// configured notifiers. Delivery failures are logged, never fatal: the
// stored record is the source of truth.
func (e *Engine) createNotification(ctx context.Context, projectID string, kind model.NotificationKind, title, message, sourceAlertID string) (*model.Notification, error) {
	n := &model.Notification{
		ProjectID:     projectID,
		Kind:          kind,
		Title:         title,
		Message:       message,
		CreatedAt:     e.now().UTC(),
		SourceAlertID: sourceAlertID,
	}

	if err := e.store.AppendNotification(ctx, n); err != nil {
		return nil, err
	}

	e.logger.Info("notification created",
		"project", projectID,
		"kind", kind,
		"title", title,
	)

	for _, notifier := range e.notifiers {
		if err := notifier.Send(ctx, *n); err != nil {
			e.logger.Error("send notification failed",
				"notifier", notifier.Name(),
				"notification", n.ID,
				"error", err,
			)
		}
	}

	return n, nil
}
