package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/scadatwin/telemetry-engine/internal/analytics"
	"github.com/scadatwin/telemetry-engine/internal/config"
	"github.com/scadatwin/telemetry-engine/internal/database"
	"github.com/scadatwin/telemetry-engine/internal/httpapi"
	"github.com/scadatwin/telemetry-engine/internal/ingest"
	"github.com/scadatwin/telemetry-engine/internal/notify"
	"github.com/scadatwin/telemetry-engine/internal/repository"
	"github.com/scadatwin/telemetry-engine/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	var store repository.Store
	switch config.StoreDriver() {
	case "memory":
		store = repository.NewMemory()
		log.Warn().Msg("using in-memory store, readings are not durable")
	default:
		db, err := database.Connect()
		if err != nil {
			log.Fatal().Err(err).Msg("db connect failed")
		}
		defer db.Close()
		store = repository.NewPostgres(db)
	}

	svcs := service.New(store, analytics.DefaultThresholds())

	app := fiber.New()
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	httpapi.Register(app, svcs)

	var gateway *ingest.Gateway
	if config.IngestEnabled() {
		gateway = ingest.New(config.MQTTBroker(), config.MQTTTopic(), store, svcs.Eval, newNotifier())
		if err := gateway.Start(); err != nil {
			log.Fatal().Err(err).Msg("ingestion gateway start failed")
		}
		log.Info().Str("broker", config.MQTTBroker()).Str("topic", config.MQTTTopic()).Msg("in-process ingestion running")
	}

	addr := config.APIAddr()
	go func() {
		log.Info().Str("addr", addr).Msg("api listening")
		if err := app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("server exit")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("shutting down")
	if gateway != nil {
		gateway.Stop()
	}
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}

func newNotifier() notify.Notifier {
	if !config.UseSNS() || config.SNSTopicArn() == "" {
		return notify.Noop{}
	}
	n, err := notify.NewSNSNotifier(context.Background(), config.AWSRegion(), config.SNSTopicArn())
	if err != nil {
		log.Error().Err(err).Msg("sns notifier unavailable, alerts will not be published")
		return notify.Noop{}
	}
	return n
}
