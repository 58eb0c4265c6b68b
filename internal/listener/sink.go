package listener

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ibs-source/bucket-manifest/internal/message"
)

// Sink handles a delivery before it is acknowledged. A non-nil error nacks the delivery.
// Sinks are called concurrently.
type Sink interface {
	Process(ctx context.Context, d *message.Delivery) error
}

// Announcer is implemented by sinks that report the subscription before receiving starts
type Announcer interface {
	Announce(path string)
}

// SettleObserver is implemented by sinks that want to know a delivery was settled
type SettleObserver interface {
	Settled(d *message.Delivery)
}

// Printer writes a human readable trace of every delivery
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPrinter returns a printer writing to w
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Announce prints the subscription being listened on
func (p *Printer) Announce(path string) {
	p.printf("Listening for messages on %s..\n", path)
}

// Process prints the received message. Output errors never block acknowledgement.
func (p *Printer) Process(_ context.Context, d *message.Delivery) error {
	p.printf("Received message %s of message ID %s\n", d.Data, d.ID)
	return nil
}

// Settled prints acknowledged deliveries
func (p *Printer) Settled(d *message.Delivery) {
	if d.Outcome() == message.OutcomeAck {
		p.printf("Acknowledged message %s\n", d.ID)
	}
}

func (p *Printer) printf(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.w, format, args...)
}

var (
	_ Sink           = (*Printer)(nil)
	_ Announcer      = (*Printer)(nil)
	_ SettleObserver = (*Printer)(nil)
)
