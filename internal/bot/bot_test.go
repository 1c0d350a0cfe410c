package bot

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnold/goalboards-api/internal/database"
	"github.com/arnold/goalboards-api/internal/models"
	"github.com/arnold/goalboards-api/internal/services"
)

func newTestBot(t *testing.T) (*Bot, *services.Service) {
	t.Helper()
	log := zerolog.Nop()
	db, err := database.Connect(filepath.Join(t.TempDir(), "bot.db"), log)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	svc := services.New(db, log)
	return New(nil, svc, log), svc
}

func message(chatID, userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: chatID, Type: "private"},
		From: &tgbotapi.User{ID: userID, UserName: "tguser"},
	}
}

func TestReplyIssuesCodeUntilLinked(t *testing.T) {
	b, svc := newTestBot(t)
	ctx := context.Background()

	text, err := b.reply(ctx, message(10, 20, "/start"))
	require.NoError(t, err)
	lines := strings.Split(text, "\n")
	require.Len(t, lines, 2)
	code := lines[1]
	assert.Len(t, code, 12)

	user, err := svc.Register(ctx, models.RegisterRequest{Username: "alice", Password: "password123", PasswordRepeat: "password123"})
	require.NoError(t, err)
	_, err = svc.Verify(ctx, user.ID, code)
	require.NoError(t, err)

	text, err = b.reply(ctx, message(10, 20, "hello"))
	require.NoError(t, err)
	assert.Equal(t, msgAlreadyLinked, text)
}

func TestReplyIgnoresAnonymousMessages(t *testing.T) {
	b, _ := newTestBot(t)
	msg := message(10, 20, "hi")
	msg.From = nil

	text, err := b.reply(context.Background(), msg)
	require.NoError(t, err)
	assert.Empty(t, text)
}
