package alerts

import (
	"context"

	"github.com/obreasy/obreasy/pkg/model"
	"github.com/obreasy/obreasy/pkg/notify"
)

// Notifications returns every notification for a project, newest first.
func (e *Engine) Notifications(ctx context.Context, projectID string) ([]model.Notification, error) {
	return e.store.ListNotifications(ctx, projectID)
}

// UnreadNotifications returns the unread notifications for a project, newest
// first.
func (e *Engine) UnreadNotifications(ctx context.Context, projectID string) ([]model.Notification, error) {
	return e.store.ListUnreadNotifications(ctx, projectID)
}

// MarkRead flips one notification to read. Missing or already-read
// notifications are a silent no-op; the return value reports whether
// anything changed. A change fans a read acknowledgement out to the
// notifiers that support it.
func (e *Engine) MarkRead(ctx context.Context, id string) (bool, error) {
	changed, err := e.store.MarkNotificationRead(ctx, id)
	if err != nil || !changed {
		return changed, err
	}

	n, err := e.store.GetNotification(ctx, id)
	if err != nil {
		e.logger.Error("load notification for read event", "notification", id, "error", err)
		return true, nil
	}
	e.sendRead(ctx, *n)

	return true, nil
}

// MarkAllRead flips every notification of a project to read and returns how
// many changed. Each previously-unread notification produces one read
// acknowledgement.
func (e *Engine) MarkAllRead(ctx context.Context, projectID string) (int64, error) {
	unread, err := e.store.ListUnreadNotifications(ctx, projectID)
	if err != nil {
		return 0, err
	}

	changed, err := e.store.MarkAllNotificationsRead(ctx, projectID)
	if err != nil {
		return 0, err
	}

	for _, n := range unread {
		n.Read = true
		e.sendRead(ctx, n)
	}

	return changed, nil
}

// sendRead delivers a read acknowledgement to the notifiers implementing
// notify.ReadNotifier. Like creation fan-out, delivery failures are logged
// and never fatal.
func (e *Engine) sendRead(ctx context.Context, n model.Notification) {
	for _, notifier := range e.notifiers {
		r, ok := notifier.(notify.ReadNotifier)
		if !ok {
			continue
		}
		if err := r.SendRead(ctx, n); err != nil {
			e.logger.Error("send read event failed",
				"notifier", notifier.Name(),
				"notification", n.ID,
				"error", err,
			)
		}
	}
}
