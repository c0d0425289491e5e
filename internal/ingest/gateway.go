package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/scadatwin/telemetry-engine/internal/analytics"
	"github.com/scadatwin/telemetry-engine/internal/domain"
	"github.com/scadatwin/telemetry-engine/internal/notify"
	"github.com/scadatwin/telemetry-engine/internal/repository"
)

const disconnectQuiesceMs = 250

// Gateway bridges the broker topic into the reading store. Ingestion is
// at-most-once and best-effort: a message that fails to decode or to insert
// is logged and dropped, and the subscription stays up. Replayed messages are
// stored again; there is no deduplication.
type Gateway struct {
	store    repository.Store
	eval     *analytics.HealthEvaluator
	notifier notify.Notifier
	topic    string
	client   mqtt.Client
}

func New(broker, topic string, store repository.Store, eval *analytics.HealthEvaluator, notifier notify.Notifier) *Gateway {
	g := &Gateway{
		store:    store,
		eval:     eval,
		notifier: notifier,
		topic:    topic,
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("telemetry-ingestor-" + uuid.NewString()[:8]).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Error().Err(err).Msg("mqtt connection lost, reconnecting")
		}).
		SetOnConnectHandler(func(c mqtt.Client) {
			// Runs on first connect and every reconnect, so the
			// subscription survives a dropped connection.
			if token := c.Subscribe(g.topic, 0, g.handleMessage); token.Wait() && token.Error() != nil {
				log.Error().Err(token.Error()).Str("topic", g.topic).Msg("subscribe failed")
				return
			}
			log.Info().Str("topic", g.topic).Msg("subscribed")
		})
	g.client = mqtt.NewClient(opts)
	return g
}

// Start connects to the broker; the OnConnect handler establishes the
// subscription.
func (g *Gateway) Start() error {
	if token := g.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return nil
}

// Stop unsubscribes and releases the broker connection.
func (g *Gateway) Stop() {
	if token := g.client.Unsubscribe(g.topic); token.Wait() && token.Error() != nil {
		log.Warn().Err(token.Error()).Msg("unsubscribe failed")
	}
	g.client.Disconnect(disconnectQuiesceMs)
	log.Info().Msg("ingestion gateway stopped")
}

func (g *Gateway) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	g.ingest(msg.Payload())
}

// ingest decodes one payload and appends it to the store. Failures are
// dropped, never retried; the next message is unaffected.
func (g *Gateway) ingest(payload []byte) {
	var r domain.Reading
	if err := json.Unmarshal(payload, &r); err != nil {
		log.Error().Err(err).Msg("discarding malformed message")
		return
	}
	if r.AssetID == "" || r.Timestamp.IsZero() {
		log.Error().Str("payload", string(payload)).Msg("discarding message missing assetId or timestamp")
		return
	}
	r.ID = 0 // ids are store-assigned, never trusted from the wire

	ctx := context.Background()
	id, err := g.store.Insert(ctx, &r)
	if err != nil {
		log.Error().Err(err).Str("asset", r.AssetID).Msg("discarding message, insert failed")
		return
	}
	r.ID = id
	log.Debug().Int64("id", id).Str("asset", r.AssetID).Time("ts", r.Timestamp).Msg("reading stored")

	if report := g.eval.Evaluate(&r); report.Health == domain.SeverityCritical {
		notifyCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := g.notifier.CriticalAlert(notifyCtx, r, report); err != nil {
			log.Error().Err(err).Str("asset", r.AssetID).Msg("critical alert notification failed")
		}
	}
}
