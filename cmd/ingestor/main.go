package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/scadatwin/telemetry-engine/internal/analytics"
	"github.com/scadatwin/telemetry-engine/internal/config"
	"github.com/scadatwin/telemetry-engine/internal/database"
	"github.com/scadatwin/telemetry-engine/internal/ingest"
	"github.com/scadatwin/telemetry-engine/internal/notify"
	"github.com/scadatwin/telemetry-engine/internal/repository"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	store := repository.NewPostgres(db)
	eval := analytics.NewHealthEvaluator(analytics.DefaultThresholds())

	var notifier notify.Notifier = notify.Noop{}
	if config.UseSNS() && config.SNSTopicArn() != "" {
		n, err := notify.NewSNSNotifier(context.Background(), config.AWSRegion(), config.SNSTopicArn())
		if err != nil {
			log.Fatal().Err(err).Msg("sns notifier init failed")
		}
		notifier = n
	}

	gateway := ingest.New(config.MQTTBroker(), config.MQTTTopic(), store, eval, notifier)
	if err := gateway.Start(); err != nil {
		log.Fatal().Err(err).Msg("mqtt connect failed")
	}
	log.Info().Str("broker", config.MQTTBroker()).Str("topic", config.MQTTTopic()).Msg("ingestor running")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	gateway.Stop()
}
