package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arnold/goalboards-api/internal/config"
	"github.com/arnold/goalboards-api/internal/database"
	"github.com/arnold/goalboards-api/internal/handlers"
	"github.com/arnold/goalboards-api/internal/logging"
	"github.com/arnold/goalboards-api/internal/notify"
	"github.com/arnold/goalboards-api/internal/routes"
	"github.com/arnold/goalboards-api/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.IsDev())

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("db")
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	var telegram notify.Notifier = notify.Nop{}
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken)
		if err != nil {
			log.Warn().Err(err).Msg("telegram notifier disabled")
		} else {
			telegram = tg
		}
	}
	push := notify.NewPush(ctx, cfg.FCMServiceAccount, log)

	svc := services.New(db, log, services.WithTelegram(telegram), services.WithPush(push))
	h := handlers.New(svc, log, cfg.JWTSecret, cfg.JWTTTL)
	app := routes.NewApp(h, cfg.JWTSecret, true)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("http server")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
