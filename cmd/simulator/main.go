package main

import (
	"encoding/json"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/scadatwin/telemetry-engine/internal/config"
	"github.com/scadatwin/telemetry-engine/internal/domain"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	log.Info().Str("topic", config.MQTTTopic()).Msg("publishing simulated motor telemetry")
	for i := 0; i < 100; i++ {
		r := domain.Reading{
			AssetID:     "MOTOR_001",
			Timestamp:   time.Now().UTC(),
			MotorAmps:   8.5 + rand.Float64()*4,
			Temperature: 65 + rand.Float64()*20,
			Vibration:   0.1 + rand.Float64()*0.4,
			Status:      "RUNNING",
		}
		payload, _ := json.Marshal(r)
		token := client.Publish(config.MQTTTopic(), 0, false, payload)
		token.Wait()
		time.Sleep(2 * time.Second)
	}
	log.Info().Msg("simulation done")
}
