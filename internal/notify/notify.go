// Package notify delivers one-way messages to identities outside the
// service: Telegram chats and FCM devices.
package notify

import "context"

// Notifier sends message to the external identity named by ref. What ref
// means depends on the channel.
type Notifier interface {
	Notify(ctx context.Context, ref, message string) error
}

// Nop drops every message. Used when a channel is not configured.
type Nop struct{}

func (Nop) Notify(context.Context, string, string) error { return nil }
