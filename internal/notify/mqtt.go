// Package notify announces landing-page visibility changes over MQTT so
// fan-facing services can refresh without polling.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fancard/internal/gateway"
)

const publishTimeout = 5 * time.Second

// Publisher is the part of mqtt.Client the notifier needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Event is the payload sent on every visibility change.
type Event struct {
	AlbumID    string    `json:"album_id"`
	DocumentID string    `json:"document_id"`
	Published  bool      `json:"is_published"`
	At         time.Time `json:"at"`
}

// Topic is where events for albumID are published.
func Topic(albumID string) string {
	return fmt.Sprintf("fancard/albums/%s/landing-page", albumID)
}

type MQTTNotifier struct {
	client Publisher
	now    func() time.Time
}

var _ gateway.Notifier = (*MQTTNotifier)(nil)

func NewMQTTNotifier(client Publisher) *MQTTNotifier {
	return &MQTTNotifier{client: client, now: time.Now}
}

// Connect dials the broker and returns a connected client.
func Connect(brokerURL, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("[mqtt] connected to broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("[mqtt] connection lost")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return client, nil
}

// LandingPagePublished sends a retained event so late subscribers see the
// current state.
func (n *MQTTNotifier) LandingPagePublished(ctx context.Context, albumID, documentID string, published bool) error {
	payload, err := json.Marshal(Event{
		AlbumID:    albumID,
		DocumentID: documentID,
		Published:  published,
		At:         n.now().UTC(),
	})
	if err != nil {
		return err
	}

	token := n.client.Publish(Topic(albumID), 1, true, payload)
	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("publish to %s timed out", Topic(albumID))
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", Topic(albumID), err)
	}
	log.Debug().Str("album_id", albumID).Bool("published", published).Msg("[mqtt] landing page event sent")
	return nil
}
