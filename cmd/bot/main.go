package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/arnold/goalboards-api/internal/bot"
	"github.com/arnold/goalboards-api/internal/config"
	"github.com/arnold/goalboards-api/internal/database"
	"github.com/arnold/goalboards-api/internal/logging"
	"github.com/arnold/goalboards-api/internal/notify"
	"github.com/arnold/goalboards-api/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.IsDev())
	if cfg.TelegramToken == "" {
		log.Fatal().Msg("TELEGRAM_TOKEN is required")
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("db")
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatal().Err(err).Msg("create bot api")
	}

	svc := services.New(db, log, services.WithTelegram(notify.NewTelegramFromAPI(api)))
	if err := bot.New(api, svc, log).Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("bot stopped with error")
	}
	log.Info().Msg("shutdown complete")
}
