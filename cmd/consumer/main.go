package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vladpirlog/takenote-api-sub000/internal/config"
	"github.com/vladpirlog/takenote-api-sub000/internal/events"
	"github.com/vladpirlog/takenote-api-sub000/internal/kafka"
	"github.com/vladpirlog/takenote-api-sub000/internal/mailer"
	"github.com/vladpirlog/takenote-api-sub000/pkg/logger"
)

// The consumer turns collaboration activity into email notifications, kept
// out of the request path so API latency never waits on the mail provider.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	logger.InitLogger()

	mail := mailer.New(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, "takenote-notifier")
	defer consumer.Close()

	consumer.RegisterHandler(events.CollaboratorAdded, func(ctx context.Context, event events.EntityEvent) error {
		if event.TargetEmail == nil {
			return nil
		}
		mail.SendNotice(ctx, *event.TargetEmail,
			"You were added to a "+event.EntityKind,
			"You now have access to "+event.EntityKind+" "+event.EntityID+".")
		return nil
	})

	consumer.RegisterHandler(events.CollaboratorRemoved, func(ctx context.Context, event events.EntityEvent) error {
		if event.TargetEmail == nil {
			return nil
		}
		mail.SendNotice(ctx, *event.TargetEmail,
			"Your access was removed",
			"You no longer have access to "+event.EntityKind+" "+event.EntityID+".")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Log.Info().Msg("Shutting down consumer")
		cancel()
	}()

	logger.Log.Info().Msg("Consumer starting")
	consumer.Start(ctx)
}
