package mqtt

import (
	"context"

	"github.com/ibs-source/bucket-manifest/internal/message"
)

// Publisher is the interface the listener relay publishes through
type Publisher interface {
	Publish(ctx context.Context, payload message.Payload) error
	Close() error
}

// Ensure Client implements Publisher
var _ Publisher = (*Client)(nil)
