// Package pubsub wraps the Cloud Pub/Sub subscriber and hands deliveries to the listener.
package pubsub

import (
	"context"
	"fmt"

	gpubsub "cloud.google.com/go/pubsub"
	"github.com/ibs-source/bucket-manifest/internal/config"
	"github.com/ibs-source/bucket-manifest/internal/log"
	"github.com/ibs-source/bucket-manifest/internal/message"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// Handler processes one delivery. It is called concurrently.
type Handler = func(ctx context.Context, d *message.Delivery)

// Client owns the Pub/Sub connection and the subscription it pulls from
type Client struct {
	client *gpubsub.Client
	sub    *gpubsub.Subscription
	path   string
	log    *log.Logger
}

// SubscriptionPath returns the fully qualified subscription name
func SubscriptionPath(project, subscription string) string {
	return fmt.Sprintf("projects/%s/subscriptions/%s", project, subscription)
}

// NewClient creates a Pub/Sub client bound to cfg.SubscriptionID.
// PUBSUB_EMULATOR_HOST is honoured by the SDK; tests pass option.WithGRPCConn.
func NewClient(ctx context.Context, cfg *config.PubSubConfig, logger *log.Logger, opts ...option.ClientOption) (*Client, error) {
	client, err := gpubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	sub := client.Subscription(cfg.SubscriptionID)
	sub.ReceiveSettings.MaxOutstandingMessages = cfg.MaxOutstandingMessages
	sub.ReceiveSettings.MaxOutstandingBytes = cfg.MaxOutstandingBytes
	sub.ReceiveSettings.NumGoroutines = cfg.NumGoroutines
	sub.ReceiveSettings.MaxExtension = cfg.MaxExtension
	sub.ReceiveSettings.Synchronous = cfg.Synchronous

	c := &Client{
		client: client,
		sub:    sub,
		path:   SubscriptionPath(cfg.ProjectID, cfg.SubscriptionID),
		log:    logger,
	}

	logger.DebugWithFields(logrus.Fields{
		"subscription":     c.path,
		"max_outstanding":  cfg.MaxOutstandingMessages,
		"num_goroutines":   cfg.NumGoroutines,
		"synchronous_pull": cfg.Synchronous,
	}, "Pub/Sub client created")

	return c, nil
}

// Path returns the subscription path this client pulls from
func (c *Client) Path() string {
	return c.path
}

// Receive pulls messages until ctx is cancelled or the pull fails.
// It returns nil on cancellation.
func (c *Client) Receive(ctx context.Context, handle Handler) error {
	err := c.sub.Receive(ctx, func(ctx context.Context, m *gpubsub.Message) {
		handle(ctx, toDelivery(c.path, m))
	})
	if err != nil {
		return fmt.Errorf("failed to receive from %s: %w", c.path, err)
	}
	return nil
}

// toDelivery converts an SDK message; settling the delivery settles m
func toDelivery(path string, m *gpubsub.Message) *message.Delivery {
	d := message.NewDelivery(m.ID, path, m.Data, m.Ack, m.Nack)
	d.Attributes = m.Attributes
	d.PublishTime = m.PublishTime
	d.DeliveryAttempt = m.DeliveryAttempt
	return d
}

// Close releases the underlying connection
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("failed to close pubsub client: %w", err)
	}
	return nil
}
