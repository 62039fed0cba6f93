package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tpts/internal/core/ports"
)

type notificationMessage struct {
	UserID  string            `json:"user_id"`
	Type    string            `json:"type"`
	Payload map[string]string `json:"payload,omitempty"`
	SentAt  time.Time         `json:"sent_at"`
}

// Notifier implements ports.Notifier on the notifications topic. Delivery to the user's
// device is the consumer's job.
type Notifier struct {
	producer *Producer
	clock    ports.Clock
}

func NewNotifier(producer *Producer, clock ports.Clock) *Notifier {
	return &Notifier{producer: producer, clock: clock}
}

func (n *Notifier) Notify(ctx context.Context, notification ports.Notification) error {
	value, err := json.Marshal(notificationMessage{
		UserID:  notification.UserID.String(),
		Type:    string(notification.Type),
		Payload: notification.Payload,
		SentAt:  n.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	return n.producer.Publish(ctx, TopicNotifications, []byte(notification.UserID.String()), value)
}
