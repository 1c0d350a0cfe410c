package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

const pushTitle = "Goalboards"

// Push sends notifications through Firebase Cloud Messaging. The ref is the
// device registration token.
type Push struct {
	client *messaging.Client
}

// NewPush initializes the FCM client from a service account file. A missing
// or broken configuration yields a Nop so local setups keep working.
func NewPush(ctx context.Context, serviceAccountPath string, log zerolog.Logger) Notifier {
	if serviceAccountPath == "" {
		log.Info().Msg("fcm: no service account configured, push disabled")
		return Nop{}
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		log.Warn().Err(err).Msg("fcm: init firebase app, push disabled")
		return Nop{}
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("fcm: get messaging client, push disabled")
		return Nop{}
	}

	log.Info().Msg("fcm: push notifications enabled")
	return &Push{client: client}
}

func (p *Push) Notify(ctx context.Context, ref, message string) error {
	return p.Send(ctx, ref, pushTitle, message, nil)
}

// Send delivers a notification with an optional data payload. An empty
// token is a no-op.
func (p *Push) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if token == "" {
		return nil
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}
	if data != nil {
		msg.Data = data
	}

	if _, err := p.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	return nil
}
