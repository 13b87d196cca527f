// Package notify publishes schedule-change events over MQTT so calendar
// clients can refresh their local copy instead of polling.
package notify

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/sushant-kumar17/yt-streamer/internal/model"
)

const eventsTopic = "schedules/events"

type event struct {
	Action   string         `json:"action"`
	Schedule model.Schedule `json:"schedule"`
}

// Publisher is nil-safe: a nil publisher drops events, so the broker stays
// optional infrastructure.
type Publisher struct {
	client mqtt.Client
}

// New connects to the broker; an empty URL disables publishing.
func New(brokerURL, clientID string) (*Publisher, error) {
	if brokerURL == "" {
		return nil, nil
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Error().Err(err).Msg("MQTT connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &Publisher{client: client}, nil
}

// ScheduleChanged publishes one event. Failures are logged, never returned:
// a down broker must not fail the request that triggered the event.
func (p *Publisher) ScheduleChanged(action string, sched model.Schedule) {
	if p == nil {
		return
	}
	payload, err := json.Marshal(event{Action: action, Schedule: sched})
	if err != nil {
		return
	}
	token := p.client.Publish(eventsTopic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		log.Error().Err(token.Error()).Str("action", action).Msg("failed to publish schedule event")
	}
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.client.Disconnect(250)
}
