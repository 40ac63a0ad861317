package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type token struct {
	err     error
	timeout bool
}

func (t *token) Wait() bool                     { return true }
func (t *token) WaitTimeout(time.Duration) bool { return !t.timeout }
func (t *token) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *token) Error() error { return t.err }

type message struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakePublisher struct {
	sent []message
	tok  *token
}

func (p *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	p.sent = append(p.sent, message{topic, qos, retained, payload.([]byte)})
	if p.tok == nil {
		return &token{}
	}
	return p.tok
}

func TestLandingPagePublished(t *testing.T) {
	pub := &fakePublisher{}
	n := NewMQTTNotifier(pub)
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return at }

	require.NoError(t, n.LandingPagePublished(context.Background(), "album-1", "doc-1", true))

	require.Len(t, pub.sent, 1)
	msg := pub.sent[0]
	assert.Equal(t, "fancard/albums/album-1/landing-page", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.True(t, msg.retained)

	var ev Event
	require.NoError(t, json.Unmarshal(msg.payload, &ev))
	assert.Equal(t, Event{AlbumID: "album-1", DocumentID: "doc-1", Published: true, At: at}, ev)
}

func TestLandingPagePublishedErrors(t *testing.T) {
	n := NewMQTTNotifier(&fakePublisher{tok: &token{err: errors.New("not connected")}})
	assert.ErrorContains(t, n.LandingPagePublished(context.Background(), "a", "d", false), "not connected")

	n = NewMQTTNotifier(&fakePublisher{tok: &token{timeout: true}})
	assert.ErrorContains(t, n.LandingPagePublished(context.Background(), "a", "d", false), "timed out")
}
