package notification

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
)

var ErrFCMDisabled = errors.New("FCM client not initialized")

// sender is the part of *messaging.Client used here.
type sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotifier pushes topic messages through Firebase Cloud Messaging.
type FCMNotifier struct {
	client sender
}

// NewFCMNotifier wraps an initialised FCM client. A nil client yields a
// notifier whose sends fail with ErrFCMDisabled.
func NewFCMNotifier(client *messaging.Client) *FCMNotifier {
	if client == nil {
		return &FCMNotifier{}
	}
	return &FCMNotifier{client: client}
}

// Notify sends title/body to every device subscribed to topic.
func (f *FCMNotifier) Notify(ctx context.Context, topic, title, body string, data map[string]string) error {
	if f.client == nil {
		return ErrFCMDisabled
	}

	response, err := f.client.Send(ctx, topicMessage(topic, title, body, data))
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}

	log.Info().Str("topic", topic).Str("message_id", response).Msg("✅ FCM message sent")
	return nil
}

func topicMessage(topic, title, body string, data map[string]string) *messaging.Message {
	return &messaging.Message{
		Topic: topic,
		Data:  data,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:        "default",
				ChannelID:    "temple_notifications",
				Priority:     messaging.PriorityHigh,
				DefaultSound: true,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
					Badge: intPtr(1),
				},
			},
		},
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: title,
				Body:  body,
				Icon:  "/icon-192x192.png",
			},
		},
	}
}

// NopNotifier drops every message. Used when FCM is not configured.
type NopNotifier struct{}

func (NopNotifier) Notify(_ context.Context, topic, _, _ string, _ map[string]string) error {
	log.Debug().Str("topic", topic).Msg("push notifications disabled, message dropped")
	return nil
}

// Helper function to create int pointer
func intPtr(i int) *int {
	return &i
}
