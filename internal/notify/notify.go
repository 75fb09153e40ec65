// Package notify delivers the user-visible success/error toasts emitted
// by the mutation layer. Notifications are fire-and-forget: no return
// value is consumed and a delivery failure never fails the mutation
// that triggered it.
package notify

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/cabin-booking-api/internal/queue"
	queue_publisher "github.com/iliyamo/cabin-booking-api/internal/service"
)

// Notifier is the notification collaborator seen by the mutation layer.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// AMQPNotifier publishes notifications to the dashboard.notifications
// queue where the background consumer picks them up. Publish failures
// are logged and swallowed.
type AMQPNotifier struct{}

// NewAMQPNotifier returns a broker-backed Notifier.
func NewAMQPNotifier() *AMQPNotifier { return &AMQPNotifier{} }

func (n *AMQPNotifier) Success(message string) { n.publish("success", message) }
func (n *AMQPNotifier) Error(message string)   { n.publish("error", message) }

func (n *AMQPNotifier) publish(level, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = queue_publisher.PublishNotification(ctx, queue.NotificationEvent{
		Level:     level,
		Message:   message,
		EmittedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// LogNotifier writes notifications to the process log. It is the
// fallback when no broker is configured and the default in tests.
type LogNotifier struct{}

// NewLogNotifier returns a log-backed Notifier.
func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) Success(message string) { log.Printf("notify: success: %s", message) }
func (n *LogNotifier) Error(message string)   { log.Printf("notify: error: %s", message) }
