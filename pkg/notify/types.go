package notify

import (
	"context"

	"github.com/obreasy/obreasy/pkg/model"
)

// Event names carried on outbound deliveries, matching the events the web
// client historically listened for.
const (
	EventNotificationCreated = "novaNotificacao"
	EventNotificationRead    = "notificacaoLida"
)

// Notifier delivers fired-alert notifications to external systems.
type Notifier interface {
	// Name returns the notifier identifier.
	Name() string

	// Send delivers a notification. Implementations must be safe for
	// concurrent use.
	Send(ctx context.Context, n model.Notification) error
}

// ReadNotifier is implemented by notifiers that also deliver read
// acknowledgements when a notification is marked read.
type ReadNotifier interface {
	// SendRead delivers a read acknowledgement for a notification.
	SendRead(ctx context.Context, n model.Notification) error
}
