// Package redis records listener acknowledgements in a capped Redis stream.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ibs-source/bucket-manifest/internal/config"
	"github.com/ibs-source/bucket-manifest/internal/log"
	"github.com/ibs-source/bucket-manifest/internal/message"
	"github.com/redis/go-redis/v9"
)

// streamWriter is the subset of *redis.Client the ledger uses
type streamWriter interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// Client appends ack records to a Redis stream trimmed to an approximate max length
type Client struct {
	rdb    streamWriter
	stream string
	maxLen int64
	log    *log.Logger
}

// NewClient connects to Redis and verifies the connection with a ping
func NewClient(cfg *config.RedisConfig, logger *log.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Recording acknowledgements to Redis stream '%s' (max len ~%d)", cfg.Stream, cfg.MaxLen)
	return newClient(rdb, cfg, logger), nil
}

func newClient(rdb streamWriter, cfg *config.RedisConfig, logger *log.Logger) *Client {
	return &Client{
		rdb:    rdb,
		stream: cfg.Stream,
		maxLen: cfg.MaxLen,
		log:    logger,
	}
}

// Stream returns the ledger stream key
func (c *Client) Stream() string {
	return c.stream
}

// Record appends one ack record to the ledger stream
func (c *Client) Record(ctx context.Context, rec message.AckRecord) error {
	id, err := c.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: c.stream,
		MaxLen: c.maxLen,
		Approx: true,
		Values: recordValues(rec),
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd failed for message %s in stream %s: %w", rec.ID, c.stream, err)
	}
	c.log.Trace("Recorded %s of message %s as %s", rec.Outcome, rec.ID, id)
	return nil
}

// recordValues flattens a record into stream field/value pairs
func recordValues(rec message.AckRecord) []interface{} {
	return []interface{}{
		"id", rec.ID,
		"subscription", rec.Subscription,
		"outcome", string(rec.Outcome),
		"published_at", formatTime(rec.PublishedAt),
		"settled_at", formatTime(rec.SettledAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// Close closes the Redis client connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}
