package listener

import (
	"context"
	"fmt"
	"time"

	"github.com/ibs-source/bucket-manifest/internal/message"
	"github.com/ibs-source/bucket-manifest/internal/mqtt"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// relayPayload is the JSON document published for each delivery
type relayPayload struct {
	ID           string            `json:"id"`
	Subscription string            `json:"subscription"`
	Data         string            `json:"data"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	PublishTime  string            `json:"publish_time,omitempty"`
}

// Relay forwards deliveries to an MQTT topic. A failed publish nacks the delivery.
type Relay struct {
	pub          mqtt.Publisher
	subscription string
}

// NewRelay returns a sink publishing through pub
func NewRelay(pub mqtt.Publisher, subscription string) *Relay {
	return &Relay{pub: pub, subscription: subscription}
}

// Process publishes the delivery and waits for the broker to accept it
func (r *Relay) Process(ctx context.Context, d *message.Delivery) error {
	payload, err := buildRelayPayload(r.subscription, d)
	if err != nil {
		return err
	}
	if err := r.pub.Publish(ctx, payload); err != nil {
		return fmt.Errorf("failed to relay message %s: %w", d.ID, err)
	}
	return nil
}

func buildRelayPayload(subscription string, d *message.Delivery) ([]byte, error) {
	p := relayPayload{
		ID:           d.ID,
		Subscription: subscription,
		Data:         string(d.Data),
		Attributes:   d.Attributes,
	}
	if !d.PublishTime.IsZero() {
		p.PublishTime = d.PublishTime.UTC().Format(time.RFC3339Nano)
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode relay payload for message %s: %w", d.ID, err)
	}
	return b, nil
}

var _ Sink = (*Relay)(nil)
