package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/arnold/goalboards-api/internal/services"
)

const (
	msgAlreadyLinked = "Your account is already linked."
	msgCodeTemplate  = "Confirm your account in the app with this verification code:\n%s"
)

// Bot answers private chats with verification codes that link the chat to
// an account.
type Bot struct {
	api *tgbotapi.BotAPI
	svc *services.Service
	log zerolog.Logger
}

func New(api *tgbotapi.BotAPI, svc *services.Service, log zerolog.Logger) *Bot {
	return &Bot{api: api, svc: svc, log: log}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info().Str("account", b.api.Self.UserName).Msg("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		msg := update.Message
		if msg == nil || msg.Chat == nil || !msg.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(ctx, msg); err != nil {
			b.log.Error().Err(err).Int64("chat", msg.Chat.ID).Msg("handle message")
		}
	}
	return ctx.Err()
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	text, err := b.reply(ctx, msg)
	if err != nil || text == "" {
		return err
	}
	_, err = b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, text))
	return err
}

// reply decides the answer to a private message. Any message from an
// unlinked chat issues a new code.
func (b *Bot) reply(ctx context.Context, msg *tgbotapi.Message) (string, error) {
	if msg.From == nil {
		return "", nil
	}
	tg, err := b.svc.RegisterChat(ctx, msg.Chat.ID, msg.From.ID, msg.From.UserName)
	if err != nil {
		return "", fmt.Errorf("register chat: %w", err)
	}
	if tg.Linked() {
		return msgAlreadyLinked, nil
	}
	b.log.Info().Int64("chat", msg.Chat.ID).Msg("verification code issued")
	return fmt.Sprintf(msgCodeTemplate, tg.VerificationCode), nil
}
